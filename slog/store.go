package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/secguide"
)

// Ensure LoggingVectorStore implements secguide.VectorStore.
var _ secguide.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with logging. Tables it opens are
// wrapped as well.
type LoggingVectorStore struct {
	next   secguide.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next secguide.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

// Rebuild delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) Rebuild(ctx context.Context, table string, records []*secguide.Record, mode secguide.RebuildMode) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("rebuild",
			"table", table,
			"records", len(records),
			"overwrite", mode == secguide.RebuildOverwrite,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Rebuild(ctx, table, records, mode)
}

// Open delegates to the wrapped store and wraps the returned table.
func (s *LoggingVectorStore) Open(ctx context.Context, table string) (secguide.Table, error) {
	t, err := s.next.Open(ctx, table)
	if err != nil {
		s.logger.Info("open", "table", table, "err", err)
		return nil, err
	}
	return &LoggingTable{next: t, logger: s.logger}, nil
}

// Ensure LoggingTable implements secguide.Table.
var _ secguide.Table = (*LoggingTable)(nil)

// LoggingTable wraps a Table with debug logging.
type LoggingTable struct {
	next   secguide.Table
	logger *slog.Logger
}

// Name delegates to the wrapped table.
func (t *LoggingTable) Name() string {
	return t.next.Name()
}

// Search delegates to the wrapped table and logs the query.
func (t *LoggingTable) Search(ctx context.Context, query []float32, column string, k int) (rows []*secguide.Row, err error) {
	defer func(begin time.Time) {
		t.logger.Debug("search",
			"table", t.next.Name(),
			"column", column,
			"k", k,
			"rows", len(rows),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Search(ctx, query, column, k)
}

// Count delegates to the wrapped table.
func (t *LoggingTable) Count(ctx context.Context) (int, error) {
	return t.next.Count(ctx)
}
