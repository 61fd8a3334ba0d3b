package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"github.com/fwojciec/secguide"
)

var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Compile-time interface verification.
var _ secguide.VectorStore = (*VectorStore)(nil)

// VectorStore implements secguide.VectorStore using SQLite.
// Embeddings are stored as float32 little-endian blobs and searched by
// brute-force L2 distance.
type VectorStore struct {
	db *DB

	// mu serializes Rebuild against Search.
	mu sync.RWMutex
}

// NewVectorStore creates a new VectorStore.
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// Rebuild creates the table and loads records inside one transaction.
// With RebuildOverwrite an existing table is replaced; with RebuildCreate
// an existing table yields ECONFLICT. On any error nothing changes.
func (s *VectorStore) Rebuild(ctx context.Context, table string, records []*secguide.Record, mode secguide.RebuildMode) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	if err := secguide.ValidateRecords(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback()

	exists, err := tableExists(ctx, tx, table)
	if err != nil {
		return err
	}
	if exists && mode == secguide.RebuildCreate {
		return secguide.Errorf(secguide.ECONFLICT, "table %q already exists", table)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	create := fmt.Sprintf(`CREATE TABLE %q (
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL CHECK (length(embedding) = %d)
	)`, table, 4*secguide.EmbedDim)
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q (url, title, content, embedding) VALUES (?, ?, ?, ?)`, table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.URL, r.Title, r.Content, encodeVector(r.Embedding)); err != nil {
			return fmt.Errorf("insert %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

// Open returns a handle to an existing table.
func (s *VectorStore) Open(ctx context.Context, table string) (secguide.Table, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	exists, err := tableExists(ctx, s.db.db, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, secguide.Errorf(secguide.ENOTFOUND, "table %q not found; run index first", table)
	}
	return &Table{store: s, name: table}, nil
}

// Compile-time interface verification.
var _ secguide.Table = (*Table)(nil)

// Table is a handle to a table in a VectorStore.
type Table struct {
	store *VectorStore
	name  string
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Search returns the k rows nearest to query by L2 distance.
// Ties are broken by insertion order.
func (t *Table) Search(ctx context.Context, query []float32, column string, k int) ([]*secguide.Row, error) {
	if column != secguide.EmbeddingColumn {
		return nil, secguide.Errorf(secguide.EINVALID, "unknown vector column %q", column)
	}
	if len(query) != secguide.EmbedDim {
		return nil, secguide.Errorf(secguide.EINVALID, "query width %d, want %d", len(query), secguide.EmbedDim)
	}
	if k <= 0 {
		return []*secguide.Row{}, nil
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	q := fmt.Sprintf(`
		SELECT url, title, content, embedding, vec_distance_l2(embedding, ?) AS distance
		FROM %q
		ORDER BY distance ASC, rowid ASC
		LIMIT ?`, t.name)
	rows, err := t.store.db.QueryContext(ctx, q, encodeVector(query), k)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", t.name, err)
	}
	defer rows.Close()

	result := make([]*secguide.Row, 0, k)
	for rows.Next() {
		var (
			row  secguide.Row
			blob []byte
		)
		if err := rows.Scan(&row.URL, &row.Title, &row.Content, &blob, &row.Distance); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if row.Embedding, err = decodeVector(blob); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", t.name, err)
	}
	return result, nil
}

// Count returns the number of rows in the table.
func (t *Table) Count(ctx context.Context) (int, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var n int
	if err := t.store.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, t.name)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return n, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tableExists(ctx context.Context, q queryer, table string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return n > 0, nil
}

func validateTableName(table string) error {
	if !tableNameRE.MatchString(table) {
		return secguide.Errorf(secguide.EINVALID, "invalid table name %q", table)
	}
	return nil
}
