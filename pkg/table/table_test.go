package table

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mriradiomics/pkg/results"
)

func createTestStore() *results.Store {
	store := results.NewStore()

	fo := results.NewFeatureMap()
	fo.Set("Mean", 25.0)
	fo.Set("Energy", 3000.0)
	store.Put("firstorder", fo)

	store.RecordFailure("glcm", errors.New("no neighbours"))

	shape := results.NewFeatureMap()
	shape.Set("VoxelVolume", 8.0)
	store.Put("shape", shape)
	return store
}

func TestProject(t *testing.T) {
	rows := Project(createTestStore())

	expected := []Row{
		{Family: "firstorder", FeatureName: "Mean", Value: "25"},
		{Family: "firstorder", FeatureName: "Energy", Value: "3000"},
		{Family: "shape", FeatureName: "VoxelVolume", Value: "8"},
	}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Expected rows %v, got %v", expected, rows)
	}
}

func TestProjectEmptyStore(t *testing.T) {
	if rows := Project(results.NewStore()); len(rows) != 0 {
		t.Errorf("Expected no rows, got %v", rows)
	}
	if rows := Project(nil); rows != nil {
		t.Errorf("Expected nil rows for nil store, got %v", rows)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in       any
		expected string
	}{
		{25.0, "25"},
		{0.1, "0.1"},
		{-1.5, "-1.5"},
		{1e-7, "0.0000001"},
		{1e21, "1000000000000000000000"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{float32(0.5), "0.5"},
		{42, "42"},
		{int64(-3), "-3"},
		{true, "true"},
		{"label", "label"},
		{nil, ""},
	}
	for _, tc := range tests {
		if got := FormatValue(tc.in); got != tc.expected {
			t.Errorf("FormatValue(%v): expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestMemorySinkReplaces(t *testing.T) {
	store := createTestStore()
	sink := &MemorySink{}

	if err := Export(store, sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	first := sink.Rows()
	if err := Export(store, sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !reflect.DeepEqual(first, sink.Rows()) {
		t.Errorf("Expected repeated export to be idempotent, got %v then %v", first, sink.Rows())
	}

	store.Reset()
	if err := Export(store, sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(sink.Rows()) != 0 {
		t.Errorf("Expected sink to be emptied, got %v", sink.Rows())
	}
}

type failingSink struct{}

func (failingSink) Replace([]Row) error { return errors.New("disk full") }

func TestExportWrapsSinkError(t *testing.T) {
	err := Export(createTestStore(), failingSink{})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected wrapped sink error, got %v", err)
	}
}

func TestCSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "features.csv")
	sink := NewCSVSink(path)

	if err := Export(createTestStore(), sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Feature Class,Feature Name,Value" {
		t.Errorf("Expected header row, got %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("Expected 4 lines, got %d: %q", len(lines), lines)
	}

	rows, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if !reflect.DeepEqual(rows, Project(createTestStore())) {
		t.Errorf("Expected CSV to hold the projected rows, got %v", rows)
	}

	// A smaller table fully replaces the file
	small := results.NewStore()
	fm := results.NewFeatureMap()
	fm.Set("Contrast", 0.5)
	small.Put("glcm", fm)
	if err := Export(small, sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	rows, err = ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	expected := []Row{{Family: "glcm", FeatureName: "Contrast", Value: "0.5"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Expected %v, got %v", expected, rows)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected only the CSV file in the output directory, got %d entries", len(entries))
	}
}

func TestSQLiteSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.db")
	sink, err := OpenSQLite(path, "features")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer sink.Close()

	if err := Export(createTestStore(), sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	rows, err := sink.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if !reflect.DeepEqual(rows, Project(createTestStore())) {
		t.Errorf("Expected stored rows to match projection, got %v", rows)
	}

	if err := Export(createTestStore(), sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	rows, _ = sink.Rows()
	if len(rows) != 3 {
		t.Errorf("Expected re-export to replace rows, got %d rows", len(rows))
	}

	if err := Export(results.NewStore(), sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	rows, _ = sink.Rows()
	if len(rows) != 0 {
		t.Errorf("Expected empty table, got %v", rows)
	}
}

func TestSQLiteRejectsBadTableName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.db")
	if _, err := OpenSQLite(path, "features; DROP TABLE x"); err == nil {
		t.Error("Expected error for invalid table name")
	}
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &ConsoleSink{Out: &buf, Title: DefaultName("tumour")}

	if err := Export(createTestStore(), sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "tumour features\n") {
		t.Errorf("Expected title line, got %q", out)
	}
	for _, want := range []string{"Feature Class", "firstorder", "Energy", "3000", "VoxelVolume"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "glcm") {
		t.Errorf("Expected failed family to be omitted, got %q", out)
	}
}

func TestDefaultName(t *testing.T) {
	if got := DefaultName(""); got != "features" {
		t.Errorf("Expected %q, got %q", "features", got)
	}
	if got := DefaultName("liver"); got != "liver features" {
		t.Errorf("Expected %q, got %q", "liver features", got)
	}
}
