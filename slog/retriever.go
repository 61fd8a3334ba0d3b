package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/secguide"
)

// Ensure LoggingRetriever implements secguide.Retriever.
var _ secguide.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with logging.
type LoggingRetriever struct {
	next   secguide.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next secguide.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Retrieve delegates to the wrapped retriever and logs the query.
func (r *LoggingRetriever) Retrieve(ctx context.Context, query string, opts secguide.RetrieveOptions) (passages []*secguide.Passage, err error) {
	defer func(begin time.Time) {
		r.logger.Info("retrieve",
			"query", query,
			"k", opts.KFinal,
			"passages", len(passages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Retrieve(ctx, query, opts)
}
