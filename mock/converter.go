package mock

import webscraper "github.com/dmtanner/authenticated-webscraper"

var _ webscraper.Converter = (*Converter)(nil)

// Converter is a mock implementation of webscraper.Converter.
type Converter struct {
	ConvertFn func(d *webscraper.Download) (string, error)
}

func (c *Converter) Convert(d *webscraper.Download) (string, error) {
	return c.ConvertFn(d)
}
