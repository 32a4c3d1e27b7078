// Package webscraper pulls business fields out of documents stored behind
// an authenticated web application. It logs in, downloads the PDF referenced
// by each row of an input table, converts it to text and locates values in
// that text by searching for the label that precedes them.
//
// This package contains domain types, interfaces and the pure extraction
// logic. Implementations of the I/O collaborators live in subdirectories
// named after their primary dependency (e.g., http/, pdf/, sqlite/).
package webscraper
