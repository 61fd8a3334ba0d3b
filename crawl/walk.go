package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/fwojciec/secguide"
	"golang.org/x/sync/errgroup"
)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	item     Item
	finalURL string
	skipped  bool
	doc      *secguide.Document
	links    []string
	err      error
}

// walker owns the frontier for one crawl run. Only the coordinator
// goroutine in run touches the frontier and the result.
type walker struct {
	crawler  *Crawler
	frontier *Frontier
	scope    *Scope
	maxDepth int
	logger   *slog.Logger
	result   *secguide.CrawlResult
}

// run dispatches frontier items to a fixed pool of workers until the
// frontier is exhausted, maxPages items have been dispatched, or ctx is
// canceled.
func (w *walker) run(ctx context.Context, concurrency, maxPages int) error {
	workCh := make(chan Item)
	resultCh := make(chan pageResult)

	var g errgroup.Group
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			for item := range workCh {
				// The coordinator receives every result, so this never blocks forever.
				resultCh <- w.process(ctx, item)
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	dispatched := 0
	pending := 0
	done := ctx.Done()
	canceled := false
	var next Item
	hasNext := false

	for {
		if !hasNext && !canceled && dispatched < maxPages {
			next, hasNext = w.popInScope()
		}
		if !hasNext && pending == 0 {
			break
		}

		// A nil channel blocks forever, which disables the send case.
		var sendCh chan Item
		if hasNext && !canceled {
			sendCh = workCh
		}

		select {
		case sendCh <- next:
			dispatched++
			pending++
			hasNext = false
		case res := <-resultCh:
			pending--
			w.handle(res, canceled)
		case <-done:
			done = nil
			canceled = true
			hasNext = false
		}
	}

	close(workCh)
	for res := range resultCh {
		w.handle(res, true)
	}

	if dispatched >= maxPages && w.frontier.Len() > 0 {
		w.logger.Warn("page limit reached", "limit", maxPages, "remaining", w.frontier.Len())
	}
	return ctx.Err()
}

// popInScope returns the next frontier item whose URL is in scope.
// Out-of-scope items are dropped without being fetched.
func (w *walker) popInScope() (Item, bool) {
	for {
		item, ok := w.frontier.Pop()
		if !ok {
			return Item{}, false
		}
		if w.scope.Allows(item.URL) {
			return item, true
		}
		w.logger.Debug("out of scope", "url", item.URL)
	}
}

// process fetches a single URL and runs extraction and link discovery.
// It must not touch the frontier.
func (w *walker) process(ctx context.Context, item Item) pageResult {
	c := w.crawler
	res := pageResult{item: item, finalURL: item.URL}

	u, err := url.Parse(item.URL)
	if err != nil {
		res.err = err
		return res
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			res.err = err
			return res
		}
	}

	resp, err := FetchWithRetryDelays(ctx, item.URL, c.Fetcher.Fetch, w.logger, c.retryDelays())
	if err != nil {
		res.err = err
		return res
	}
	if resp.URL != "" {
		res.finalURL = stripFragment(resp.URL)
	}

	if !resp.IsHTML() || !w.scope.Allows(res.finalURL) {
		res.skipped = true
		return res
	}

	extracted, err := c.Extractor.Extract(resp.Body, res.finalURL)
	switch {
	case err == nil:
		doc := &secguide.Document{
			URL:     res.finalURL,
			Title:   extracted.Title,
			Content: extracted.Content,
		}
		if err := doc.Validate(); err != nil {
			w.logger.Debug("invalid document", "url", res.finalURL, "error", err)
		} else {
			res.doc = doc
		}
	case secguide.ErrorCode(err) == secguide.ENOCONTENT:
		w.logger.Debug("no content", "url", res.finalURL)
	default:
		w.logger.Warn("extract failed", "url", res.finalURL, "error", err)
	}

	// Links are discovered regardless of the extraction outcome.
	links, err := c.Links.ExtractLinks(resp.Body, res.finalURL)
	if err != nil {
		w.logger.Warn("link discovery failed", "url", res.finalURL, "error", err)
	}
	res.links = links

	return res
}

// handle folds a page result into the run. When draining, discovered
// links are not enqueued.
func (w *walker) handle(res pageResult, draining bool) {
	if res.err != nil {
		w.result.Failed++
		w.logger.Warn("fetch failed", "url", res.item.URL, "error", res.err)
		return
	}

	// A redirect to a URL already crawled would produce a duplicate document.
	if res.finalURL != res.item.URL && !w.frontier.Visit(res.finalURL) {
		w.result.Skipped++
		w.logger.Debug("redirect to seen URL", "url", res.item.URL, "target", res.finalURL)
		return
	}

	if res.skipped {
		w.result.Skipped++
		w.logger.Debug("skipped", "url", res.finalURL)
		return
	}

	w.result.Fetched++
	if res.doc != nil {
		w.result.Documents = append(w.result.Documents, res.doc)
	}

	if draining || res.item.Depth >= w.maxDepth {
		return
	}
	for _, link := range res.links {
		if !w.scope.Allows(link) {
			continue
		}
		w.frontier.Push(link, res.item.Depth+1)
	}
}
