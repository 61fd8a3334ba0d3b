package crawl

import (
	"strings"
	"sync"
)

// Item is a URL waiting in the frontier together with its link depth.
type Item struct {
	URL   string
	Depth int
}

// Frontier is an in-memory FIFO URL frontier with exact deduplication.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	queue    []Item
	maxDepth int
}

// NewFrontier creates an empty Frontier that refuses items deeper than maxDepth.
func NewFrontier(maxDepth int) *Frontier {
	return &Frontier{
		seen:     make(map[string]struct{}),
		maxDepth: maxDepth,
	}
}

// Push adds a URL at the given depth.
// Returns false if the URL has already been seen or depth exceeds the maximum.
// URL fragments are stripped before deduplication - URLs differing only by fragment
// are considered duplicates.
func (f *Frontier) Push(url string, depth int) bool {
	if depth < 0 || depth > f.maxDepth {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	url = stripFragment(url)
	if _, ok := f.seen[url]; ok {
		return false
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, Item{URL: url, Depth: depth})
	return true
}

// Pop removes and returns the oldest item.
// Returns false if the frontier is empty.
func (f *Frontier) Pop() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return Item{}, false
	}
	item := f.queue[0]
	f.queue[0] = Item{}
	f.queue = f.queue[1:]
	return item, true
}

// Visit marks a URL as seen without queueing it, so that later Push calls
// for it are rejected. Returns false if it was already seen.
func (f *Frontier) Visit(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url = stripFragment(url)
	if _, ok := f.seen[url]; ok {
		return false
	}
	f.seen[url] = struct{}{}
	return true
}

// Seen reports whether a URL has been pushed or visited.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.seen[stripFragment(url)]
	return ok
}

// Len returns the number of queued items.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
