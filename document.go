package secguide

import "context"

// Document represents the prose extracted from one crawled HTML page.
type Document struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	if d.Content == "" {
		return Errorf(EINVALID, "document content required")
	}
	return nil
}

// EmbeddingText returns the text embedded for the document at index time.
func (d *Document) EmbeddingText() string {
	return d.Title + ": " + d.Content
}

// CrawlConfig configures a single crawl run.
type CrawlConfig struct {
	// Seeds are the absolute URLs the crawl starts from, at depth 0.
	Seeds []string

	// AllowedDomains restricts which hosts may be fetched. A host matches a
	// domain when it equals it or is a subdomain of it. When empty, the hosts
	// of the seeds are used.
	AllowedDomains []string

	// MaxDepth is the deepest link level that will be enqueued.
	MaxDepth int

	// Concurrency bounds the number of fetches in flight.
	Concurrency int

	// UseSitemap also seeds the crawl with URLs listed in the site's sitemap.
	UseSitemap bool
}

// CrawlResult holds the outcome of a crawl run.
type CrawlResult struct {
	// Documents are the pages that yielded extractable content,
	// in the order their fetches completed.
	Documents []*Document

	Fetched int // HTML pages fetched
	Skipped int // non-HTML responses or out-of-scope redirects
	Failed  int // fetch errors
}

// Crawler collects documents from a website.
type Crawler interface {
	// Crawl runs a full crawl and returns the accumulated documents.
	// Per-page failures never abort the run; an unreachable seed yields
	// an empty result rather than an error.
	Crawl(ctx context.Context, cfg CrawlConfig) (*CrawlResult, error)
}
