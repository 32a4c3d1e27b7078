package webscraper

// Converter converts a downloaded document into the text the extractors
// search. PDF documents are decoded; other bodies may be returned as is.
type Converter interface {
	Convert(d *Download) (string, error)
}
