package secguide

import (
	"context"
	"strings"
)

// FetchResponse is the outcome of fetching a single URL.
type FetchResponse struct {
	// URL is the final URL after redirects.
	URL string

	StatusCode  int
	ContentType string

	// Body is the response body decoded to UTF-8.
	// It is left empty for non-HTML responses.
	Body string
}

// IsHTML reports whether the declared content type is HTML.
func (r *FetchResponse) IsHTML() bool {
	ct := strings.ToLower(strings.TrimSpace(r.ContentType))
	return strings.HasPrefix(ct, "text/html")
}

// Fetcher retrieves pages over the network.
type Fetcher interface {
	// Fetch retrieves the URL. Implementations that honour robots exclusion
	// return EFORBIDDEN for disallowed URLs.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResponse, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
