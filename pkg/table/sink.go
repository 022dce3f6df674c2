package table

import (
	"fmt"

	"mriradiomics/pkg/results"
)

// Sink receives a complete table. Replace discards whatever the sink held
// before; there are no incremental updates.
type Sink interface {
	Replace(rows []Row) error
}

// Export projects the store and replaces the sink's content with the rows
func Export(store *results.Store, sink Sink) error {
	if err := sink.Replace(Project(store)); err != nil {
		return fmt.Errorf("failed to export feature table: %w", err)
	}
	return nil
}

// MemorySink keeps the latest table in memory
type MemorySink struct {
	rows []Row
}

// Replace stores a copy of rows
func (m *MemorySink) Replace(rows []Row) error {
	m.rows = append([]Row(nil), rows...)
	return nil
}

// Rows returns a copy of the current table
func (m *MemorySink) Rows() []Row {
	return append([]Row(nil), m.rows...)
}

// DefaultName derives a table title from the mask name
func DefaultName(maskName string) string {
	if maskName == "" {
		return "features"
	}
	return maskName + " features"
}
