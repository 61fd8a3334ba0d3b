package secguide

import "context"

// Vector store defaults.
const (
	DefaultTableName = "security_guidance"
	EmbeddingColumn  = "embedding"
)

// Record is a document together with its embedding, as stored.
type Record struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// NewRecord pairs a document with its embedding.
func NewRecord(doc *Document, embedding []float32) *Record {
	return &Record{
		URL:       doc.URL,
		Title:     doc.Title,
		Content:   doc.Content,
		Embedding: embedding,
	}
}

// ValidateRecords returns ESCHEMA if any record's embedding is not EmbedDim wide.
func ValidateRecords(records []*Record) error {
	for i, r := range records {
		if r == nil {
			return Errorf(EINVALID, "record %d is nil", i)
		}
		if len(r.Embedding) != EmbedDim {
			return Errorf(ESCHEMA, "record %d (%s): embedding width %d, want %d", i, r.URL, len(r.Embedding), EmbedDim)
		}
	}
	return nil
}

// Row is a single similarity search hit.
type Row struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`

	// Distance from the query vector under the store's metric. Lower is nearer.
	Distance float64 `json:"distance"`
}

// RebuildMode controls what Rebuild does when the table already exists.
type RebuildMode int

// RebuildMode values.
const (
	// RebuildOverwrite replaces an existing table.
	RebuildOverwrite RebuildMode = iota
	// RebuildCreate fails with ECONFLICT if the table exists.
	RebuildCreate
)

// VectorStore holds tables of records searchable by vector similarity.
//
// The store is single-writer, many-reader: Search calls may run
// concurrently, but never while a Rebuild of the same table is in flight.
type VectorStore interface {
	// Rebuild creates the table and bulk-loads records in one atomic step.
	// Every record is validated before anything is written; ESCHEMA is
	// returned if any embedding is not EmbedDim wide and the store is left
	// untouched.
	Rebuild(ctx context.Context, table string, records []*Record, mode RebuildMode) error

	// Open returns a handle to an existing table.
	// Returns ENOTFOUND if the table does not exist.
	Open(ctx context.Context, table string) (Table, error)
}

// Table is a handle to a table in a VectorStore.
type Table interface {
	// Name returns the table name.
	Name() string

	// Search returns the k rows nearest to query over the given vector
	// column, nearest first. Callers must not depend on the order of ties.
	Search(ctx context.Context, query []float32, column string, k int) ([]*Row, error)

	// Count returns the number of rows in the table.
	Count(ctx context.Context) (int, error)
}
