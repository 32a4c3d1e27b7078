package webscraper

import "io"

// Row is one data row of a table. Position is its zero-based index among
// the data rows, not counting the header.
type Row struct {
	Position int
	Cells    []string
}

// Cell returns the cell at column i, or "" if the row is shorter.
func (r *Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Table is a row-oriented dataset with a header row.
type Table struct {
	Header []string
	Rows   []*Row
}

// Column returns the index of the named header column.
// Returns EINVALID if the table has no such column.
func (t *Table) Column(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, Errorf(EINVALID, "input has no %q column", name)
}

// TableReader decodes a table from a stream.
type TableReader interface {
	ReadTable(r io.Reader) (*Table, error)
}

// TableWriter encodes a table to a stream.
type TableWriter interface {
	WriteTable(w io.Writer, t *Table) error
}
