package webscraper

// TokenFinder locates the anti-forgery token a login form must echo back.
type TokenFinder interface {
	// FindToken returns the token found in the login page HTML,
	// or an absent Value when the page carries none.
	FindToken(html string) (Value, error)
}
