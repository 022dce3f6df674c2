package table

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CSVSink writes the table to a CSV file with a header row. Each Replace
// rewrites the whole file through a temporary file and a rename.
type CSVSink struct {
	Path string
}

// NewCSVSink returns a sink writing to path
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{Path: path}
}

// Replace writes rows to the file
func (c *CSVSink) Replace(rows []Row) error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".features-*.csv")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if rows == nil {
		rows = []Row{}
	}
	if err := gocsv.Marshal(&rows, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("error encoding CSV: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("error replacing %s: %w", c.Path, err)
	}
	return nil
}

// ReadCSV loads a table previously written by CSVSink
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("error decoding CSV: %w", err)
	}
	return rows, nil
}
