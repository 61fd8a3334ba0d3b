// Package crawl provides the link-following crawl engine.
// It coordinates fetching, extraction, and link discovery across a
// bounded-depth, single-site frontier.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/secguide"
)

// Crawl defaults.
const (
	DefaultMaxDepth    = 5
	DefaultConcurrency = 2
	// DefaultMaxPages limits the number of URLs dispatched to prevent runaway crawls.
	DefaultMaxPages = 1000
)

var _ secguide.Crawler = (*Crawler)(nil)

// Crawler walks a website from a set of seeds and collects documents.
type Crawler struct {
	Fetcher   secguide.Fetcher
	Extractor secguide.Extractor
	Links     secguide.LinkExtractor

	// Sitemaps seeds the frontier when CrawlConfig.UseSitemap is set. Optional.
	Sitemaps secguide.SitemapService
	// RateLimiter enforces per-domain politeness. Optional.
	RateLimiter secguide.DomainLimiter

	Logger      *slog.Logger
	RetryDelays []time.Duration
	MaxPages    int
}

// Crawl runs a crawl to exhaustion of the frontier.
//
// A negative MaxDepth is invalid; zero restricts the crawl to the seeds.
// Concurrency defaults to DefaultConcurrency. The context is only consulted
// for process shutdown: when it is canceled, in-flight fetches are drained
// and ctx.Err() is returned.
func (c *Crawler) Crawl(ctx context.Context, cfg secguide.CrawlConfig) (*secguide.CrawlResult, error) {
	if len(cfg.Seeds) == 0 {
		return nil, secguide.Errorf(secguide.EINVALID, "at least one seed URL required")
	}
	if cfg.MaxDepth < 0 {
		return nil, secguide.Errorf(secguide.EINVALID, "max depth must not be negative")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	scope, err := NewScope(cfg.AllowedDomains, cfg.Seeds)
	if err != nil {
		return nil, err
	}

	logger := c.logger()
	frontier := NewFrontier(cfg.MaxDepth)
	for _, seed := range cfg.Seeds {
		frontier.Push(seed, 0)
	}
	if cfg.UseSitemap && c.Sitemaps != nil {
		for _, seed := range cfg.Seeds {
			base, err := siteRoot(seed)
			if err != nil {
				continue
			}
			urls, err := c.Sitemaps.DiscoverURLs(ctx, base)
			if err != nil {
				logger.Warn("sitemap discovery failed", "url", base, "error", err)
				continue
			}
			added := 0
			for _, u := range urls {
				if scope.Allows(u) && frontier.Push(u, 0) {
					added++
				}
			}
			logger.Info("sitemap seeded", "url", base, "urls", added)
		}
	}

	result := &secguide.CrawlResult{}
	w := &walker{
		crawler:  c,
		frontier: frontier,
		scope:    scope,
		maxDepth: cfg.MaxDepth,
		logger:   logger,
		result:   result,
	}
	if err := w.run(ctx, cfg.Concurrency, c.maxPages()); err != nil {
		return nil, err
	}

	logger.Info("crawl finished",
		"documents", len(result.Documents),
		"fetched", result.Fetched,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Crawler) maxPages() int {
	if c.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return c.MaxPages
}

func (c *Crawler) retryDelays() []time.Duration {
	if c.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return c.RetryDelays
}

// siteRoot returns the scheme and host of rawURL.
func siteRoot(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("not an absolute URL: %s", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
