package slog

import (
	"log/slog"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

// Ensure LoggingConverter implements webscraper.Converter.
var _ webscraper.Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter with debug logging.
type LoggingConverter struct {
	next   webscraper.Converter
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter.
func NewLoggingConverter(next webscraper.Converter, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs the operation.
func (c *LoggingConverter) Convert(d *webscraper.Download) (text string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("convert",
			"url", d.URL,
			"content_type", d.ContentType,
			"chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Convert(d)
}
