package mock

import (
	"context"

	"github.com/fwojciec/secguide"
)

var _ secguide.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of secguide.VectorStore.
type VectorStore struct {
	RebuildFn func(ctx context.Context, table string, records []*secguide.Record, mode secguide.RebuildMode) error
	OpenFn    func(ctx context.Context, table string) (secguide.Table, error)
}

func (s *VectorStore) Rebuild(ctx context.Context, table string, records []*secguide.Record, mode secguide.RebuildMode) error {
	return s.RebuildFn(ctx, table, records, mode)
}

func (s *VectorStore) Open(ctx context.Context, table string) (secguide.Table, error) {
	return s.OpenFn(ctx, table)
}

var _ secguide.Table = (*Table)(nil)

// Table is a mock implementation of secguide.Table.
type Table struct {
	NameFn   func() string
	SearchFn func(ctx context.Context, query []float32, column string, k int) ([]*secguide.Row, error)
	CountFn  func(ctx context.Context) (int, error)
}

func (t *Table) Name() string {
	return t.NameFn()
}

func (t *Table) Search(ctx context.Context, query []float32, column string, k int) ([]*secguide.Row, error) {
	return t.SearchFn(ctx, query, column, k)
}

func (t *Table) Count(ctx context.Context) (int, error) {
	return t.CountFn(ctx)
}
