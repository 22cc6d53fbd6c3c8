package views

import (
	"math"

	"github.com/KaramelBytes/costboard/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix is a square, symmetric Pearson correlation matrix.
// Values[i][j] is null when fields i and j share fewer than two
// observations or one of them has no variance over the shared rows.
type CorrMatrix struct {
	Fields []string          `json:"fields" yaml:"fields"`
	Labels []string          `json:"labels" yaml:"labels"`
	Values [][]dataset.Value `json:"values" yaml:"values"`
	// Pairs[i][j] counts the records with both fields populated.
	Pairs [][]int `json:"pairs" yaml:"pairs"`
}

// CorrelationFields are the indicators of the insights tab.
func CorrelationFields() []string {
	out := make([]string, len(ComparisonMetrics))
	for i, m := range ComparisonMetrics {
		out[i] = m.Field
	}
	return out
}

// At returns the coefficient between two fields of the matrix.
func (m *CorrMatrix) At(a, b string) (dataset.Value, bool) {
	i, j := indexOf(m.Fields, a), indexOf(m.Fields, b)
	if i < 0 || j < 0 {
		return dataset.Null(), false
	}
	return m.Values[i][j], true
}

// CorrelationMatrix computes pairwise-deleted Pearson coefficients among
// fields. A nil fields slice means CorrelationFields(). The diagonal is
// exactly 1 for fields with at least two observations.
func CorrelationMatrix(ds *dataset.Dataset, fields []string) (*CorrMatrix, error) {
	if fields == nil {
		fields = CorrelationFields()
	}
	if err := checkFields(ds, fields...); err != nil {
		return nil, err
	}
	recs := ds.Records()
	n := len(fields)
	m := &CorrMatrix{
		Fields: append([]string(nil), fields...),
		Labels: make([]string, n),
		Values: make([][]dataset.Value, n),
		Pairs:  make([][]int, n),
	}
	for i := range fields {
		m.Labels[i] = dataset.Describe(fields[i]).Label
		m.Values[i] = make([]dataset.Value, n)
		m.Pairs[i] = make([]int, n)
	}
	for a := 0; a < n; a++ {
		obs := observations(recs, fields[a])
		m.Pairs[a][a] = obs
		if obs >= 2 {
			m.Values[a][a] = dataset.Some(1)
		}
		for b := a + 1; b < n; b++ {
			x, y := pairwise(recs, fields[a], fields[b])
			r := pearson(x, y)
			m.Values[a][b], m.Values[b][a] = r, r
			m.Pairs[a][b], m.Pairs[b][a] = len(x), len(x)
		}
	}
	return m, nil
}

func observations(recs []dataset.Record, field string) int {
	n := 0
	for _, r := range recs {
		if r.Value(field).Valid {
			n++
		}
	}
	return n
}

// pairwise collects the values of two fields over records where both
// are populated.
func pairwise(recs []dataset.Record, fa, fb string) (x, y []float64) {
	for _, r := range recs {
		va, aok := r.Value(fa).Get()
		vb, bok := r.Value(fb).Get()
		if aok && bok {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

func pearson(x, y []float64) dataset.Value {
	if len(x) < 2 {
		return dataset.Null()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return dataset.Null()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return dataset.Some(r)
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
