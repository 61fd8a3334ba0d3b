package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/secguide"
	"golang.org/x/time/rate"
)

var _ secguide.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to the same host at least delay apart.
// Hosts are compared case-insensitively and each gets its own token bucket
// with a burst of one, so the first request to a host never waits.
// A zero or negative delay disables limiting.
type DomainLimiter struct {
	delay time.Duration

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter creates a DomainLimiter enforcing delay between requests
// to one host.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	return &DomainLimiter{
		delay: delay,
		hosts: make(map[string]*rate.Limiter),
	}
}

// Delay returns the enforced delay.
func (d *DomainLimiter) Delay() time.Duration {
	return d.delay
}

// Wait blocks until a request to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.delay <= 0 {
		return ctx.Err()
	}
	return d.limiter(host).Wait(ctx)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	host = strings.ToLower(host)

	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(d.delay), 1)
		d.hosts[host] = l
	}
	return l
}
