// Package excelize reads and writes webscraper tables as XLSX workbooks
// using github.com/xuri/excelize/v2.
package excelize

import (
	"io"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/xuri/excelize/v2"
)

// Compile-time interface verification.
var (
	_ webscraper.TableReader = (*Reader)(nil)
	_ webscraper.TableWriter = (*Writer)(nil)
)

// DefaultSheet is the sheet name written by Writer.
const DefaultSheet = "Results"

// Reader decodes the first sheet of a workbook, or the named one.
type Reader struct {
	Sheet string
}

// NewReader creates a Reader for the first sheet.
func NewReader() *Reader {
	return &Reader{}
}

// ReadTable reads the header row and every data row of the sheet.
func (r *Reader) ReadTable(in io.Reader) (*webscraper.Table, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EINVALID, "failed to open workbook: %v", err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, webscraper.Errorf(webscraper.EINVALID, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EINVALID, "failed to read sheet %q: %v", sheet, err)
	}
	if len(rows) == 0 {
		return nil, webscraper.Errorf(webscraper.EINVALID, "input table is empty")
	}

	table := &webscraper.Table{Header: rows[0]}
	for _, cells := range rows[1:] {
		table.Rows = append(table.Rows, &webscraper.Row{
			Position: len(table.Rows),
			Cells:    cells,
		})
	}

	return table, nil
}

// Writer encodes a table into a single-sheet workbook.
type Writer struct {
	Sheet string
}

// NewWriter creates a Writer for DefaultSheet.
func NewWriter() *Writer {
	return &Writer{Sheet: DefaultSheet}
}

// WriteTable writes the header on the first row and the data rows below it.
func (w *Writer) WriteTable(out io.Writer, t *webscraper.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	write := func(row int, cells []string) error {
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := write(i+2, row.Cells); err != nil {
			return err
		}
	}

	if err := f.Write(out); err != nil {
		return webscraper.Errorf(webscraper.EINTERNAL, "xlsx write: %v", err)
	}
	return nil
}
