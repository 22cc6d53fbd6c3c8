package report

import (
	"math"
	"sort"

	"github.com/KaramelBytes/costboard/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary captures statistics for one numeric field.
type ColumnSummary struct {
	Name    string        `json:"name" yaml:"name"`
	Label   string        `json:"label" yaml:"label"`
	Unit    string        `json:"unit,omitempty" yaml:"unit,omitempty"`
	NonNull int           `json:"non_null" yaml:"non_null"`
	Missing int           `json:"missing" yaml:"missing"`
	Min     dataset.Value `json:"min" yaml:"min"`
	Max     dataset.Value `json:"max" yaml:"max"`
	Mean    dataset.Value `json:"mean" yaml:"mean"`
	Std     dataset.Value `json:"std" yaml:"std"`
}

// MissingPct is the share of records without a value, in percent.
func (c ColumnSummary) MissingPct() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100.0 / float64(total)
}

// Summarize computes per-field statistics in dataset field order.
func Summarize(ds *dataset.Dataset) []ColumnSummary {
	recs := ds.Records()
	out := make([]ColumnSummary, 0, len(ds.Fields()))
	for _, f := range ds.Fields() {
		info := dataset.Describe(f)
		cs := ColumnSummary{Name: f, Label: info.Label, Unit: info.Unit}
		vals := make([]float64, 0, len(recs))
		for _, r := range recs {
			if x, ok := r.Value(f).Get(); ok {
				vals = append(vals, x)
			}
		}
		cs.NonNull = len(vals)
		cs.Missing = len(recs) - len(vals)
		if len(vals) > 0 {
			cs.Min = dataset.Some(floats.Min(vals))
			cs.Max = dataset.Some(floats.Max(vals))
			mean, std := stat.MeanStdDev(vals, nil)
			cs.Mean = dataset.Some(mean)
			// sample std is undefined for a single value
			if len(vals) > 1 {
				cs.Std = dataset.Some(std)
			}
		}
		out = append(out, cs)
	}
	return out
}

// CorrPair is one off-diagonal coefficient of a matrix.
type CorrPair struct {
	A string  `json:"a" yaml:"a"`
	B string  `json:"b" yaml:"b"`
	R float64 `json:"r" yaml:"r"`
	N int     `json:"n" yaml:"n"`
}

// TopPairs lists populated coefficients of the upper triangle, strongest
// |r| first. limit <= 0 returns all of them.
func TopPairs(labels []string, values [][]dataset.Value, pairs [][]int, limit int) []CorrPair {
	var out []CorrPair
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			r, ok := values[i][j].Get()
			if !ok {
				continue
			}
			out = append(out, CorrPair{A: labels[i], B: labels[j], R: r, N: pairs[i][j]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].R), math.Abs(out[j].R)
		if ai == aj {
			return out[i].A+out[i].B < out[j].A+out[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
