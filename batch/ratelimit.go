package batch

import (
	"context"
	"net"
	"net/url"
	"strings"
	"sync"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"golang.org/x/time/rate"
)

var _ webscraper.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out document downloads per host with one token
// bucket per host. Hosts are compared case-insensitively and without their
// default port, so "App.example.com:443" and "app.example.com" share a
// bucket. A URL may be passed in place of a host.
type DomainLimiter struct {
	rps float64

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter creates a DomainLimiter allowing rps downloads per second
// from each host. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		rps:     rps,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a download from host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	return d.bucket(hostKey(host)).Wait(ctx)
}

// Hosts returns the number of hosts seen so far.
func (d *DomainLimiter) Hosts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buckets)
}

func (d *DomainLimiter) bucket(key string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buckets[key]
	if !ok {
		b = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.buckets[key] = b
	}
	return b
}

// hostKey normalizes a host, host:port or URL to the bucket key.
func hostKey(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Host
		}
	}
	s = strings.ToLower(s)

	if h, port, err := net.SplitHostPort(s); err == nil && (port == "80" || port == "443") {
		s = h
	}
	return strings.TrimSuffix(s, ".")
}
