// Package table flattens a results.Store into rows of (family, feature name,
// value) strings and writes them to table sinks. Every export replaces the
// sink's previous content.
package table

import (
	"fmt"
	"math"
	"strconv"

	"mriradiomics/pkg/results"
)

// Column headers, in row order
var Columns = []string{"Feature Class", "Feature Name", "Value"}

// Row is one rendered feature. Rows are never written back into a store.
type Row struct {
	Family      string `csv:"Feature Class" db:"family"`
	FeatureName string `csv:"Feature Name" db:"feature_name"`
	Value       string `csv:"Value" db:"value"`
}

// Project renders the store. Families appear in store order and features in
// the order their family produced them; failed families are omitted.
func Project(store *results.Store) []Row {
	if store == nil {
		return nil
	}
	var rows []Row
	for _, family := range store.Families() {
		fm, _ := store.Get(family)
		fm.Each(func(name string, value any) {
			rows = append(rows, Row{Family: family, FeatureName: name, Value: FormatValue(value)})
		})
	}
	return rows
}

// FormatValue converts a feature value to its canonical, locale independent
// string. Floats use the shortest plain decimal that round-trips.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
