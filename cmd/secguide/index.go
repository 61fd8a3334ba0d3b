package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/secguide"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	cfg := secguide.CrawlConfig{
		Seeds:          c.Seed,
		AllowedDomains: c.AllowedDomain,
		MaxDepth:       c.Depth,
		Concurrency:    c.Concurrency,
		UseSitemap:     c.Sitemap,
	}

	result, err := deps.Indexer.Run(deps.Ctx, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	if result.Documents == 0 {
		fmt.Fprintf(deps.Stdout, "No documents found; %q left unchanged (fetched %d, skipped %d, failed %d)\n",
			deps.Table, result.Fetched, result.Skipped, result.Failed)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d documents into %q in %s\n", result.Documents, deps.Table, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(deps.Stdout, "  fetched %d, skipped %d, failed %d, duplicates %d\n",
		result.Fetched, result.Skipped, result.Failed, result.Duplicates)
	if result.Tokens > 0 {
		fmt.Fprintf(deps.Stdout, "  %d tokens\n", result.Tokens)
	}
	return nil
}
