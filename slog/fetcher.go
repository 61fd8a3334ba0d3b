// Package slog provides log/slog decorators for secguide services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/secguide"
)

// Ensure LoggingFetcher implements secguide.Fetcher.
var _ secguide.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   secguide.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next secguide.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *secguide.FetchResponse, err error) {
	defer func(begin time.Time) {
		var status, size int
		var contentType string
		if resp != nil {
			status, size, contentType = resp.StatusCode, len(resp.Body), resp.ContentType
		}
		f.logger.Info("fetch",
			"url", url,
			"status", status,
			"type", contentType,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
