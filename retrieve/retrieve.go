// Package retrieve implements similarity retrieval with content
// de-duplication over a secguide.Table.
package retrieve

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/secguide"
)

var _ secguide.Retriever = (*Retriever)(nil)

// Retriever embeds a query, over-fetches nearest rows and drops rows whose
// content repeats an earlier, nearer row.
type Retriever struct {
	embedder secguide.Embedder
	table    secguide.Table
}

// NewRetriever creates a Retriever over table.
func NewRetriever(embedder secguide.Embedder, table secguide.Table) *Retriever {
	return &Retriever{embedder: embedder, table: table}
}

// Retrieve returns up to opts.KFinal passages nearest to query with
// distinct content, nearest first. An empty table yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts secguide.RetrieveOptions) ([]*secguide.Passage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, secguide.Errorf(secguide.EINVALID, "query required")
	}
	opts = opts.WithDefaults()

	vec, err := r.embedder.EncodeOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := r.table.Search(ctx, vec, secguide.EmbeddingColumn, opts.KCandidates)
	if err != nil {
		return nil, err
	}

	kept := Dedupe(rows, opts.KFinal)
	passages := make([]*secguide.Passage, len(kept))
	for i, row := range kept {
		passages[i] = &secguide.Passage{
			URL:     row.URL,
			Title:   row.Title,
			Content: row.Content,
		}
	}
	return passages, nil
}

// Dedupe returns the first k rows of rows whose Content differs from every
// row kept before it. Order is preserved. Equality is exact string
// equality; the hash only selects the bucket to compare against.
func Dedupe(rows []*secguide.Row, k int) []*secguide.Row {
	if k <= 0 {
		return []*secguide.Row{}
	}
	kept := make([]*secguide.Row, 0, min(k, len(rows)))
	buckets := make(map[uint64][]string)

	for _, row := range rows {
		if len(kept) >= k {
			break
		}
		h := xxhash.Sum64String(row.Content)
		if contains(buckets[h], row.Content) {
			continue
		}
		buckets[h] = append(buckets[h], row.Content)
		kept = append(kept, row)
	}
	return kept
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
