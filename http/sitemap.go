package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/secguide"
	"github.com/temoto/robotstxt"
)

// maxIndexDepth bounds how deeply sitemap indexes may nest.
const maxIndexDepth = 3

var _ secguide.SitemapService = (*SitemapService)(nil)

// SitemapService lists the pages a guidance site publishes in its sitemaps,
// so a crawl can reach pages nothing links to.
//
// Sitemaps are located through the Sitemap lines of robots.txt, falling back
// to /sitemap.xml. Only pages on the site's host or one of its subdomains are
// returned, and only those whose path would pass secguide.ShouldFollow.
// Fragments are stripped, duplicates dropped and sitemap order kept.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a SitemapService. A nil client selects
// http.DefaultClient and an empty userAgent selects DefaultUserAgent.
func NewSitemapService(client *http.Client, userAgent string) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &SitemapService{client: client, userAgent: userAgent}
}

// DiscoverURLs returns the in-site page URLs listed in the sitemaps of the
// site baseURL belongs to. It returns an empty slice when the site has no
// sitemap. A missing child sitemap is skipped; any other fetch or parse
// failure is returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Hostname() == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, secguide.Errorf(secguide.EINVALID, "invalid site URL %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.locate(ctx, root)
	if err != nil {
		return nil, err
	}

	d := &discovery{
		service:  s,
		host:     strings.ToLower(base.Hostname()),
		visited:  make(map[string]bool),
		listed:   make(map[string]bool),
		pageURLs: []string{},
	}
	for _, sitemapURL := range sitemaps {
		if err := d.visit(ctx, sitemapURL, 0); err != nil {
			return nil, err
		}
	}
	return d.pageURLs, nil
}

// locate returns the sitemaps declared in robots.txt, or /sitemap.xml when
// robots.txt is unavailable or declares none.
func (s *SitemapService) locate(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	raw, err := s.get(ctx, robotsURL)
	if err == nil {
		if robots, err := robotstxt.FromBytes(raw); err == nil {
			var declared []string
			for _, u := range robots.Sitemaps {
				if u = strings.TrimSpace(u); u != "" {
					declared = append(declared, u)
				}
			}
			if len(declared) > 0 {
				return declared, nil
			}
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, nil
}

func (s *SitemapService) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, secguide.Errorf(secguide.EINVALID, "invalid URL %q", rawURL)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, rawURL); err != nil {
		return nil, err
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

// discovery holds the state of one DiscoverURLs call.
type discovery struct {
	service  *SitemapService
	host     string
	visited  map[string]bool
	listed   map[string]bool
	pageURLs []string
}

func (d *discovery) visit(ctx context.Context, sitemapURL string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth > maxIndexDepth || d.visited[sitemapURL] {
		return nil
	}
	d.visited[sitemapURL] = true

	raw, err := d.service.get(ctx, sitemapURL)
	if secguide.ErrorCode(err) == secguide.ENOTFOUND {
		return nil
	} else if err != nil {
		return fmt.Errorf("fetching sitemap: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return secguide.Errorf(secguide.EINVALID, "malformed sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return secguide.Errorf(secguide.EINVALID, "empty sitemap %s", sitemapURL)
	}

	switch root.Tag {
	case "sitemapindex":
		for _, loc := range locs(root, "sitemap") {
			if u, ok := d.inSite(loc); ok {
				if err := d.visit(ctx, u.String(), depth+1); err != nil {
					return err
				}
			}
		}
	case "urlset":
		for _, loc := range locs(root, "url") {
			d.add(loc)
		}
	default:
		return secguide.Errorf(secguide.EINVALID, "sitemap %s has unexpected root <%s>", sitemapURL, root.Tag)
	}
	return nil
}

func (d *discovery) add(loc string) {
	u, ok := d.inSite(loc)
	if !ok {
		return
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if !secguide.ShouldFollow(p) {
		return
	}
	if s := u.String(); !d.listed[s] {
		d.listed[s] = true
		d.pageURLs = append(d.pageURLs, s)
	}
}

// inSite parses loc and reports whether it is an http(s) URL on the site's
// host or a subdomain of it. The returned URL has no fragment.
func (d *discovery) inSite(loc string) (*url.URL, bool) {
	u, err := url.Parse(loc)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	if host != d.host && !strings.HasSuffix(host, "."+d.host) {
		return nil, false
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u, true
}

// locs returns the trimmed, non-empty <loc> texts of the named children.
func locs(root *etree.Element, child string) []string {
	var out []string
	for _, el := range root.SelectElements(child) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if text := strings.TrimSpace(loc.Text()); text != "" {
			out = append(out, text)
		}
	}
	return out
}
