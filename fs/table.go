// Package fs provides file-based storage for tables.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

// TableFile reads and writes a table stored at a path. Writes are atomic:
// the table is written to path.tmp and renamed over path only once it is
// complete, so a failed write never leaves a truncated output behind.
type TableFile struct {
	path   string
	reader webscraper.TableReader
	writer webscraper.TableWriter
}

// NewTableFile creates a new TableFile. Either codec may be nil if the file
// is only read or only written.
func NewTableFile(path string, r webscraper.TableReader, w webscraper.TableWriter) *TableFile {
	return &TableFile{path: path, reader: r, writer: w}
}

// Path returns the final path of the file.
func (f *TableFile) Path() string {
	return f.path
}

func (f *TableFile) tempPath() string {
	return f.path + ".tmp"
}

// Read opens the file and decodes it.
func (f *TableFile) Read() (*webscraper.Table, error) {
	if f.reader == nil {
		return nil, webscraper.Errorf(webscraper.EINVALID, "%s is not readable", f.path)
	}

	in, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, webscraper.Errorf(webscraper.ENOTFOUND, "input file %s not found", f.path)
		}
		return nil, err
	}
	defer in.Close()

	t, err := f.reader.ReadTable(in)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return t, nil
}

// Write encodes t to a temporary file and moves it into place.
func (f *TableFile) Write(t *webscraper.Table) error {
	if f.writer == nil {
		return webscraper.Errorf(webscraper.EINVALID, "%s is not writable", f.path)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	out, err := os.Create(f.tempPath())
	if err != nil {
		return err
	}

	if err := f.writer.WriteTable(out, t); err != nil {
		_ = out.Close()
		_ = f.Abort()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := out.Close(); err != nil {
		_ = f.Abort()
		return err
	}

	return os.Rename(f.tempPath(), f.path)
}

// Abort removes a leftover temporary file.
func (f *TableFile) Abort() error {
	err := os.Remove(f.tempPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
