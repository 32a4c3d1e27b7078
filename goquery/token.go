// Package goquery locates values in login page HTML using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	webscraper "github.com/dmtanner/authenticated-webscraper"
)

// Ensure TokenFinder implements webscraper.TokenFinder at compile time.
var _ webscraper.TokenFinder = (*TokenFinder)(nil)

// TokenFinder finds the anti-forgery token of a login page. It checks, in
// order, the csrf-token meta tag, the hidden form field, a quasi-JSON
// `"csrfToken": "...",` fragment and a `csrfToken = "...";` script variable.
type TokenFinder struct {
	// Field is the name of the hidden form input carrying the token.
	Field string
}

// NewTokenFinder creates a TokenFinder for the authenticity_token form field.
func NewTokenFinder() *TokenFinder {
	return &TokenFinder{Field: "authenticity_token"}
}

// scriptTokenName is the name the token goes by in inline scripts.
const scriptTokenName = "csrfToken"

// FindToken returns the token, or an absent Value if the page has none.
func (f *TokenFinder) FindToken(html string) (webscraper.Value, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return webscraper.Value{}, webscraper.Errorf(webscraper.EINVALID, "failed to parse HTML: %v", err)
	}

	if token := attr(doc, "meta[name='csrf-token']", "content"); token != "" {
		return webscraper.Found(token), nil
	}
	if f.Field != "" {
		if token := attr(doc, "input[name='"+f.Field+"']", "value"); token != "" {
			return webscraper.Found(token), nil
		}
	}

	var scripts strings.Builder
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scripts.WriteString(s.Text())
		scripts.WriteString("\n")
	})
	return fromScript(scripts.String()), nil
}

// attr returns the first non-empty value of the attribute over the matches of selector.
func attr(doc *goquery.Document, selector, name string) string {
	var value string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(name); ok && strings.TrimSpace(v) != "" {
			value = strings.TrimSpace(v)
			return false
		}
		return true
	})
	return value
}

// fromScript looks for the token in inline script source. Malformed
// fragments are treated as absent.
func fromScript(src string) webscraper.Value {
	if v, err := webscraper.ExtractTag(src, scriptTokenName); err == nil && v.OK() {
		if token := strings.Trim(v.String(), `"'`); token != "" {
			return webscraper.Found(token)
		}
	}
	if v, err := webscraper.ExtractVariable(src, scriptTokenName); err == nil && v.OK() {
		if token := strings.Trim(v.String(), `'`); token != "" {
			return webscraper.Found(token)
		}
	}
	return webscraper.Value{}
}
