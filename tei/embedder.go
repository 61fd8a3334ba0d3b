// Package tei implements secguide.Embedder against a text-embeddings-inference
// server serving sentence-transformers/all-MiniLM-L6-v2.
package tei

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/secguide"
)

// Config defaults.
const (
	DefaultBaseURL   = "http://localhost:8080"
	DefaultModel     = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultBatchSize = 32
	DefaultTimeout   = 30 * time.Second
)

// Config configures an Embedder. Zero fields take their defaults.
type Config struct {
	BaseURL    string
	Model      string
	Dimensions int
	BatchSize  int
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Dimensions <= 0 {
		c.Dimensions = secguide.EmbedDim
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}

var _ secguide.Embedder = (*Embedder)(nil)

// Embedder encodes text by calling the server's /embed endpoint.
type Embedder struct {
	cfg Config
}

// NewEmbedder creates an Embedder.
func NewEmbedder(cfg Config) *Embedder {
	return &Embedder{cfg: cfg.withDefaults()}
}

// embedRequest is the body of POST /embed.
type embedRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
	Truncate  bool     `json:"truncate"`
}

// Dimensions returns the width of every vector the Embedder produces.
func (e *Embedder) Dimensions() int {
	return e.cfg.Dimensions
}

// ModelName returns the configured model identifier.
func (e *Embedder) ModelName() string {
	return e.cfg.Model
}

// Ping encodes a probe string and checks the server's vector width.
func (e *Embedder) Ping(ctx context.Context) error {
	_, err := e.EncodeOne(ctx, "ping")
	return err
}

// EncodeOne embeds a single text.
func (e *Embedder) EncodeOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeMany embeds texts in batches of BatchSize and returns one vector
// per text, in input order.
func (e *Embedder) EncodeMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(texts))
		vecs, err := e.embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	jsonData, err := json.Marshal(embedRequest{
		Inputs:    texts,
		Normalize: true,
		Truncate:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/embed", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var vecs [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vecs); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(vecs) != len(texts) {
		return nil, secguide.Errorf(secguide.EINTERNAL, "embedding service returned %d vectors for %d inputs", len(vecs), len(texts))
	}
	for i, v := range vecs {
		if len(v) != e.cfg.Dimensions {
			return nil, secguide.Errorf(secguide.ESCHEMA, "model %s returned width %d at index %d, want %d", e.cfg.Model, len(v), i, e.cfg.Dimensions)
		}
	}
	return vecs, nil
}
