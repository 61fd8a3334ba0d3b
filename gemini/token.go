package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/secguide"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ secguide.TokenCounter = (*TokenCounter)(nil)

// TokenCounter reports how many Gemini tokens indexed guidance would cost
// as prompt context. Counting is local; no API key is needed.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for model, or DefaultModel when
// model is empty.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, fmt.Errorf("tokenizer for %s: %w", model, err)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the model whose tokenizer is used.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens counts the tokens text occupies as a user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, fmt.Errorf("counting tokens: %w", err)
	}
	return int(result.TotalTokens), nil
}
