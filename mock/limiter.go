package mock

import (
	"context"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

var _ webscraper.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of webscraper.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
