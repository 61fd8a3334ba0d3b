// Package http provides an HTTP-based implementation of secguide.Fetcher
// and sitemap discovery for static documentation sites.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/secguide"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html/charset"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultUserAgent    = "Mozilla/5.0"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 10 << 20
)

// Ensure Fetcher implements secguide.Fetcher at compile time.
var _ secguide.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages using plain HTTP requests. It does not execute
// JavaScript. Bodies of HTML responses are decoded to UTF-8 using the
// declared or sniffed charset; other bodies are not read.
type Fetcher struct {
	client        *http.Client
	timeout       time.Duration
	userAgent     string
	respectRobots bool

	mu     sync.Mutex
	robots map[string]*robotstxt.RobotsData
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRobots enables robots.txt exclusion. Each host's robots.txt is
// fetched once and cached for the lifetime of the Fetcher.
func WithRobots(respect bool) Option {
	return func(f *Fetcher) {
		f.respectRobots = respect
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		robots:    make(map[string]*robotstxt.RobotsData),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the given URL.
//
// Returns EFORBIDDEN for URLs excluded by robots.txt and for 403 responses,
// ENOTFOUND for 404 responses and EINVALID for other 4xx responses.
// Server errors are returned uncoded so callers may retry them.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*secguide.FetchResponse, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, secguide.Errorf(secguide.EINVALID, "invalid URL %q", rawURL)
	}

	if f.respectRobots {
		allowed, err := f.allowed(ctx, u)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, secguide.Errorf(secguide.EFORBIDDEN, "disallowed by robots.txt: %s", rawURL)
		}
	}

	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, rawURL); err != nil {
		return nil, err
	}

	out := &secguide.FetchResponse{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if !out.IsHTML() {
		return out, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", rawURL, err)
	}
	if len(raw) == 0 {
		return out, nil
	}

	r, err := charset.NewReader(bytes.NewReader(raw), out.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decoding body of %s: %w", rawURL, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	out.Body = string(body)

	return out, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, secguide.Errorf(secguide.EINVALID, "creating request: %v", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	return f.client.Do(req)
}

// allowed reports whether robots.txt for u's host permits fetching u.
// A robots.txt that cannot be retrieved permits everything.
func (f *Fetcher) allowed(ctx context.Context, u *url.URL) (bool, error) {
	key := u.Scheme + "://" + u.Host

	f.mu.Lock()
	data, ok := f.robots[key]
	f.mu.Unlock()

	if !ok {
		var err error
		data, err = f.fetchRobots(ctx, key+"/robots.txt")
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			data = nil
		}
		f.mu.Lock()
		f.robots[key] = data
		f.mu.Unlock()
	}

	if data == nil {
		return true, nil
	}
	return data.TestAgent(u.RequestURI(), f.userAgent), nil
}

func (f *Fetcher) fetchRobots(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	resp, err := f.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	return robotstxt.FromStatusAndBytes(resp.StatusCode, body)
}

// statusError maps a non-2xx status to an error.
func statusError(status int, rawURL string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return secguide.Errorf(secguide.ENOTFOUND, "HTTP %d for %s", status, rawURL)
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return secguide.Errorf(secguide.EFORBIDDEN, "HTTP %d for %s", status, rawURL)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("HTTP %d for %s", status, rawURL)
	case status >= 400 && status < 500:
		return secguide.Errorf(secguide.EINVALID, "HTTP %d for %s", status, rawURL)
	default:
		return fmt.Errorf("HTTP %d for %s", status, rawURL)
	}
}
