package mock

import webscraper "github.com/dmtanner/authenticated-webscraper"

var _ webscraper.TokenFinder = (*TokenFinder)(nil)

// TokenFinder is a mock implementation of webscraper.TokenFinder.
type TokenFinder struct {
	FindTokenFn func(html string) (webscraper.Value, error)
}

func (f *TokenFinder) FindToken(html string) (webscraper.Value, error) {
	return f.FindTokenFn(html)
}
