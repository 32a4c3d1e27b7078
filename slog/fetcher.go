// Package slog wraps webscraper services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

// Ensure LoggingFetcher implements webscraper.Fetcher.
var _ webscraper.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging of every download.
type LoggingFetcher struct {
	next   webscraper.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next webscraper.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (d *webscraper.Download, err error) {
	defer func(begin time.Time) {
		var n int
		if d != nil {
			n = len(d.Body)
		}
		f.logger.Info("fetch",
			"url", url,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
