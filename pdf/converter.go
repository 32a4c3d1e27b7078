// Package pdf converts downloaded documents to searchable text using
// github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"
	"strings"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/ledongthuc/pdf"
)

// Ensure Converter implements webscraper.Converter at compile time.
var _ webscraper.Converter = (*Converter)(nil)

var magic = []byte("%PDF-")

// Converter extracts the plain text of PDF documents, one page after
// another separated by a newline. Bodies that are not PDF (HTML pages,
// plain text) are returned unchanged so the extractors can search them
// directly. The body is sniffed; the Content-Type header is not trusted.
type Converter struct{}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// IsPDF reports whether body starts with the PDF header.
func IsPDF(body []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(body, " \t\r\n"), magic)
}

// Convert returns the text of d.
func (c *Converter) Convert(d *webscraper.Download) (string, error) {
	if d == nil || len(d.Body) == 0 {
		return "", webscraper.Errorf(webscraper.EMALFORMED, "empty document")
	}
	if !IsPDF(d.Body) {
		return string(d.Body), nil
	}
	return extractText(d.Body)
}

func extractText(body []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", webscraper.Errorf(webscraper.EMALFORMED, "corrupt PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", webscraper.Errorf(webscraper.EMALFORMED, "open pdf: %v", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", webscraper.Errorf(webscraper.EMALFORMED, "page %d: %v", i, err)
		}
		pages = append(pages, pageText)
	}
	if len(pages) == 0 {
		return "", webscraper.Errorf(webscraper.EMALFORMED, "pdf has no readable pages")
	}

	return strings.Join(pages, "\n"), nil
}
