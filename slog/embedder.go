package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/secguide"
)

// Ensure LoggingEmbedder implements secguide.Embedder.
var _ secguide.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with logging.
type LoggingEmbedder struct {
	next   secguide.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next secguide.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// EncodeOne delegates to the wrapped embedder and logs the call at debug level.
func (e *LoggingEmbedder) EncodeOne(ctx context.Context, text string) (vec []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("embed",
			"chars", len(text),
			"dim", len(vec),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EncodeOne(ctx, text)
}

// EncodeMany delegates to the wrapped embedder and logs the batch.
func (e *LoggingEmbedder) EncodeMany(ctx context.Context, texts []string) (vecs [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed batch",
			"texts", len(texts),
			"vectors", len(vecs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EncodeMany(ctx, texts)
}

// Dimensions delegates to the wrapped embedder.
func (e *LoggingEmbedder) Dimensions() int {
	return e.next.Dimensions()
}
