// Package qdrant provides an alternate secguide.VectorStore backed by a
// Qdrant server. Each table is a Qdrant collection.
package qdrant

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/fwojciec/secguide"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// DefaultPort is Qdrant's gRPC port.
const DefaultPort = 6334

// upsertBatchSize bounds the number of points sent per Upsert call.
const upsertBatchSize = 256

// Payload field names.
const (
	fieldURL     = "url"
	fieldTitle   = "title"
	fieldContent = "content"
	fieldSeq     = "seq"
)

var collectionNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Client is the subset of *qdrant.Client used by VectorStore.
type Client interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Count(ctx context.Context, request *qdrant.CountPoints) (uint64, error)
}

var _ Client = (*qdrant.Client)(nil)

// NewClient connects to a Qdrant server over gRPC.
func NewClient(host string, port int) (*qdrant.Client, error) {
	if port == 0 {
		port = DefaultPort
	}
	return qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
}

// Compile-time interface verification.
var _ secguide.VectorStore = (*VectorStore)(nil)

// VectorStore implements secguide.VectorStore on Qdrant collections using
// Euclidean distance.
//
// Rebuild deletes and recreates the collection before loading it, so a
// failure part way through the load leaves a partial collection behind.
type VectorStore struct {
	client Client

	// mu serializes Rebuild against Search within this process.
	mu sync.RWMutex
}

// NewVectorStore creates a new VectorStore.
func NewVectorStore(client Client) *VectorStore {
	return &VectorStore{client: client}
}

// Rebuild recreates the collection and upserts every record.
func (s *VectorStore) Rebuild(ctx context.Context, table string, records []*secguide.Record, mode secguide.RebuildMode) error {
	if err := validateName(table); err != nil {
		return err
	}
	if err := secguide.ValidateRecords(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.client.CollectionExists(ctx, table)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", table, err)
	}
	if exists {
		if mode == secguide.RebuildCreate {
			return secguide.Errorf(secguide.ECONFLICT, "collection %q already exists", table)
		}
		if err := s.client.DeleteCollection(ctx, table); err != nil {
			return fmt.Errorf("delete collection %s: %w", table, err)
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: table,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(secguide.EmbedDim),
			Distance: qdrant.Distance_Euclid,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", table, err)
	}

	wait := true
	for start := 0; start < len(records); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(records))
		points := make([]*qdrant.PointStruct, 0, end-start)
		for i := start; i < end; i++ {
			points = append(points, pointFromRecord(records[i], i))
		}
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: table,
			Wait:           &wait,
			Points:         points,
		})
		if err != nil {
			return fmt.Errorf("upsert into %s: %w", table, err)
		}
	}
	return nil
}

// Open returns a handle to an existing collection.
func (s *VectorStore) Open(ctx context.Context, table string) (secguide.Table, error) {
	if err := validateName(table); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	exists, err := s.client.CollectionExists(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("check collection %s: %w", table, err)
	}
	if !exists {
		return nil, secguide.Errorf(secguide.ENOTFOUND, "collection %q not found; run index first", table)
	}
	return &Table{store: s, name: table}, nil
}

// Compile-time interface verification.
var _ secguide.Table = (*Table)(nil)

// Table is a handle to a Qdrant collection.
type Table struct {
	store *VectorStore
	name  string
}

// Name returns the collection name.
func (t *Table) Name() string {
	return t.name
}

// Search returns the k points nearest to query. Rows carry no embedding.
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

	limit := uint64(k)
	points, err := t.store.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: t.name,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}

	type hit struct {
		row *secguide.Row
		seq int64
	}
	hits := make([]hit, 0, len(points))
	for _, p := range points {
		row, seq := rowFromPoint(p)
		hits = append(hits, hit{row: row, seq: seq})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].row.Distance != hits[j].row.Distance {
			return hits[i].row.Distance < hits[j].row.Distance
		}
		return hits[i].seq < hits[j].seq
	})

	rows := make([]*secguide.Row, len(hits))
	for i, h := range hits {
		rows[i] = h.row
	}
	return rows, nil
}

// Count returns the exact number of points in the collection.
func (t *Table) Count(ctx context.Context) (int, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	exact := true
	n, err := t.store.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: t.name,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return int(n), nil
}

func pointFromRecord(r *secguide.Record, seq int) *qdrant.PointStruct {
	return &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.NewString()),
		Vectors: qdrant.NewVectorsDense(r.Embedding),
		Payload: qdrant.NewValueMap(map[string]any{
			fieldURL:     r.URL,
			fieldTitle:   r.Title,
			fieldContent: r.Content,
			fieldSeq:     int64(seq),
		}),
	}
}

// rowFromPoint converts a scored point to a row and its insertion sequence.
// With Euclid distance the score is the distance itself.
func rowFromPoint(p *qdrant.ScoredPoint) (*secguide.Row, int64) {
	payload := p.GetPayload()
	return &secguide.Row{
		URL:      payload[fieldURL].GetStringValue(),
		Title:    payload[fieldTitle].GetStringValue(),
		Content:  payload[fieldContent].GetStringValue(),
		Distance: float64(p.GetScore()),
	}, payload[fieldSeq].GetIntegerValue()
}

func validateName(name string) error {
	if !collectionNameRE.MatchString(name) {
		return secguide.Errorf(secguide.EINVALID, "invalid collection name %q", name)
	}
	return nil
}
