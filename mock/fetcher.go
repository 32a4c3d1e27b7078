package mock

import (
	"context"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

var _ webscraper.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of webscraper.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*webscraper.Download, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*webscraper.Download, error) {
	return f.FetchFn(ctx, url)
}
