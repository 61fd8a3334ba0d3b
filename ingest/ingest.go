// Package ingest builds a searchable table from a website: crawl, embed
// every document in one batch, then rebuild the table.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/secguide"
	"github.com/google/uuid"
)

// Indexer runs full index builds.
type Indexer struct {
	Crawler  secguide.Crawler
	Embedder secguide.Embedder
	Store    secguide.VectorStore
	Table    string
	Logger   *slog.Logger

	// Tokens, when set, counts the tokens of the indexed content.
	Tokens secguide.TokenCounter
}

// Result holds the outcome of an index build.
type Result struct {
	RunID     string
	Documents int
	// Duplicates counts documents whose content exactly repeats an
	// earlier document under a different URL.
	Duplicates int
	Fetched    int
	Skipped    int
	Failed     int
	// Tokens is the total token count of the indexed content, or zero
	// when no TokenCounter is configured.
	Tokens   int
	Duration time.Duration
}

// Run crawls, embeds and rebuilds the table, replacing any previous
// contents. When the crawl yields no documents the store is not touched
// and a zero-document Result is returned.
func (ix *Indexer) Run(ctx context.Context, cfg secguide.CrawlConfig) (*Result, error) {
	begin := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := ix.logger().With("run", result.RunID)

	table := ix.Table
	if table == "" {
		table = secguide.DefaultTableName
	}

	crawled, err := ix.Crawler.Crawl(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("crawl: %w", err)
	}
	result.Fetched = crawled.Fetched
	result.Skipped = crawled.Skipped
	result.Failed = crawled.Failed

	docs := crawled.Documents
	if len(docs) == 0 {
		logger.Warn("no documents found", "seeds", cfg.Seeds, "failed", crawled.Failed)
		result.Duration = time.Since(begin)
		return result, nil
	}
	result.Documents = len(docs)
	result.Duplicates = countDuplicates(docs)

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.EmbeddingText()
	}
	vecs, err := ix.Embedder.EncodeMany(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vecs) != len(docs) {
		return nil, secguide.Errorf(secguide.EINTERNAL, "embedder returned %d vectors for %d documents", len(vecs), len(docs))
	}

	records := make([]*secguide.Record, len(docs))
	for i, doc := range docs {
		records[i] = secguide.NewRecord(doc, vecs[i])
	}

	if err := ix.Store.Rebuild(ctx, table, records, secguide.RebuildOverwrite); err != nil {
		return nil, fmt.Errorf("rebuild %s: %w", table, err)
	}

	if ix.Tokens != nil {
		for _, doc := range docs {
			n, err := ix.Tokens.CountTokens(ctx, doc.Content)
			if err != nil {
				logger.Warn("token count failed", "url", doc.URL, "error", err)
				continue
			}
			result.Tokens += n
		}
	}

	result.Duration = time.Since(begin)
	logger.Info("index built",
		"table", table,
		"documents", result.Documents,
		"duplicates", result.Duplicates,
		"failed", result.Failed,
		"tokens", result.Tokens,
		"duration", result.Duration,
	)
	return result, nil
}

func (ix *Indexer) logger() *slog.Logger {
	if ix.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return ix.Logger
}

// countDuplicates counts documents whose content equals that of an
// earlier document.
func countDuplicates(docs []*secguide.Document) int {
	seen := make(map[uint64][]string)
	n := 0
	for _, doc := range docs {
		h := xxhash.Sum64String(doc.Content)
		dup := false
		for _, c := range seen[h] {
			if c == doc.Content {
				dup = true
				break
			}
		}
		if dup {
			n++
			continue
		}
		seen[h] = append(seen[h], doc.Content)
	}
	return n
}
