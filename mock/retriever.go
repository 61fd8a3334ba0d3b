package mock

import (
	"context"

	"github.com/fwojciec/secguide"
)

var _ secguide.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of secguide.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, query string, opts secguide.RetrieveOptions) ([]*secguide.Passage, error)
}

func (r *Retriever) Retrieve(ctx context.Context, query string, opts secguide.RetrieveOptions) ([]*secguide.Passage, error) {
	return r.RetrieveFn(ctx, query, opts)
}

var _ secguide.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of secguide.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, cfg secguide.CrawlConfig) (*secguide.CrawlResult, error)
}

func (c *Crawler) Crawl(ctx context.Context, cfg secguide.CrawlConfig) (*secguide.CrawlResult, error) {
	return c.CrawlFn(ctx, cfg)
}
