package webscraper

import "context"

// Download is a document body retrieved from the web application.
type Download struct {
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher retrieves documents over an authenticated session.
type Fetcher interface {
	// Fetch downloads the document at url.
	// Returns EFETCH on network, authentication or status failures.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Download, error)
}
