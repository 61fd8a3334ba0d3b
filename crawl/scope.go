package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/secguide"
)

// Scope decides which URLs a crawl may fetch.
// A URL is in scope when it uses http or https and its host equals one of
// the allowed domains or is a subdomain of one.
type Scope struct {
	domains []string
}

// NewScope builds a Scope from the allowed domains. When allowed is empty,
// the hosts of the seed URLs are used instead.
func NewScope(allowed []string, seeds []string) (*Scope, error) {
	s := &Scope{}
	for _, d := range allowed {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d == "" {
			continue
		}
		s.domains = append(s.domains, d)
	}
	if len(s.domains) > 0 {
		return s, nil
	}

	for _, seed := range seeds {
		u, err := url.Parse(seed)
		if err != nil || u.Hostname() == "" {
			return nil, secguide.Errorf(secguide.EINVALID, "invalid seed URL %q", seed)
		}
		s.domains = append(s.domains, strings.ToLower(u.Hostname()))
	}
	if len(s.domains) == 0 {
		return nil, secguide.Errorf(secguide.EINVALID, "no allowed domains")
	}
	return s, nil
}

// Domains returns the allowed domains.
func (s *Scope) Domains() []string {
	return s.domains
}

// Allows reports whether rawURL may be fetched.
func (s *Scope) Allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range s.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
