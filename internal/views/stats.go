package views

import (
	"github.com/KaramelBytes/costboard/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// meanOf returns the arithmetic mean of field over records, skipping
// nulls, and the number of values that contributed.
func meanOf(records []dataset.Record, field string) (dataset.Value, int) {
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		if x, ok := r.Value(field).Get(); ok {
			vals = append(vals, x)
		}
	}
	if len(vals) == 0 {
		return dataset.Null(), 0
	}
	return dataset.Some(stat.Mean(vals, nil)), len(vals)
}

func checkFields(ds *dataset.Dataset, fields ...string) error {
	for _, f := range fields {
		if !ds.HasField(f) {
			return unknownField(f)
		}
	}
	return nil
}
