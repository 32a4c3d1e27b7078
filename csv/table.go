// Package csv reads and writes webscraper tables as delimited text.
package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"io"
	"strings"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

// Compile-time interface verification.
var (
	_ webscraper.TableReader = (*Reader)(nil)
	_ webscraper.TableWriter = (*Writer)(nil)
)

const bom = "\ufeff"

// Reader decodes a table whose first record is the header row.
type Reader struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// NewReader creates a comma-delimited Reader.
func NewReader() *Reader {
	return &Reader{Comma: ','}
}

// ReadTable reads the header and every data row. Rows may have a different
// number of cells than the header.
func (r *Reader) ReadTable(in io.Reader) (*webscraper.Table, error) {
	cr := stdcsv.NewReader(in)
	if r.Comma != 0 {
		cr.Comma = r.Comma
	}
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, webscraper.Errorf(webscraper.EINVALID, "input table is empty")
	} else if err != nil {
		return nil, webscraper.Errorf(webscraper.EINVALID, "failed to read header: %v", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	table := &webscraper.Table{Header: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, webscraper.Errorf(webscraper.EINVALID, "failed to read row %d: %v", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, &webscraper.Row{
			Position: len(table.Rows),
			Cells:    record,
		})
	}

	return table, nil
}

// Writer encodes a table as comma-delimited text.
type Writer struct {
	Comma rune
}

// NewWriter creates a comma-delimited Writer.
func NewWriter() *Writer {
	return &Writer{Comma: ','}
}

// WriteTable writes the header followed by every row.
func (w *Writer) WriteTable(out io.Writer, t *webscraper.Table) error {
	cw := stdcsv.NewWriter(out)
	if w.Comma != 0 {
		cw.Comma = w.Comma
	}

	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row.Cells); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
