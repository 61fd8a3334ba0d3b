// Package gemini implements answer generation and token counting with
// Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/secguide"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Asker implements secguide.Asker at compile time.
var _ secguide.Asker = (*Asker)(nil)

// Asker implements secguide.Asker using Google Gemini over retrieved context.
type Asker struct {
	client    *genai.Client
	retriever secguide.Retriever
	model     string

	// Options are passed to every retrieval.
	Options secguide.RetrieveOptions
}

// NewAsker creates a new Asker. An empty model selects DefaultModel.
func NewAsker(client *genai.Client, retriever secguide.Retriever, model string) *Asker {
	if model == "" {
		model = DefaultModel
	}
	return &Asker{client: client, retriever: retriever, model: model}
}

// Ask answers a natural language question from the indexed guidance.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", secguide.Errorf(secguide.EINVALID, "question required")
	}

	passages, err := a.retriever.Retrieve(ctx, question, a.Options)
	if err != nil {
		return "", err
	}
	if len(passages) == 0 {
		return "", secguide.Errorf(secguide.ENOTFOUND, "no relevant guidance found")
	}

	prompt := BuildUserPrompt(secguide.FormatContext(passages), question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", secguide.Errorf(secguide.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a security documentation assistant. Answer the question using only the context provided, and cite the URL of each passage you rely on. If the context does not contain the answer, say that you could not find it in the guidance.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt from a formatted context block and
// the question.
func BuildUserPrompt(contextBlock, question string) string {
	return "Context:\n" + contextBlock + "\n\nQuestion: " + question
}
