package views

import (
	"github.com/KaramelBytes/costboard/internal/dataset"
)

// ComparisonMetrics are the metrics of the compare tab, in chart order.
var ComparisonMetrics = []Metric{
	{"Meal (Inexpensive Restaurant)", dataset.FieldMealInexpensive},
	{"1BR Rent (City Centre)", dataset.FieldRentCentre},
	{"Internet (60Mbps+)", dataset.FieldInternet},
	{"Net Monthly Salary", dataset.FieldNetSalary},
	{"Mortgage Rate (%)", dataset.FieldMortgageRate},
}

// EntityRef selects a city by (country, city).
type EntityRef struct {
	Country string `json:"country" yaml:"country"`
	City    string `json:"city" yaml:"city"`
}

func (e EntityRef) String() string { return e.City + ", " + e.Country }

// ComparisonRow is one (metric, entity, value) triple of the long form.
type ComparisonRow struct {
	Metric string        `json:"metric" yaml:"metric"`
	Entity string        `json:"entity" yaml:"entity"`
	Value  dataset.Value `json:"value" yaml:"value"`
}

// ComparisonTableRow is one metric of the side-by-side table.
type ComparisonTableRow struct {
	Metric string        `json:"metric" yaml:"metric"`
	A      dataset.Value `json:"a" yaml:"a"`
	B      dataset.Value `json:"b" yaml:"b"`
}

// Comparison is the compare tab: long-form rows for grouped bars and a
// side-by-side table keyed by metric label.
type Comparison struct {
	A     EntityRef            `json:"a" yaml:"a"`
	B     EntityRef            `json:"b" yaml:"b"`
	AID   string               `json:"a_id" yaml:"a_id"`
	BID   string               `json:"b_id" yaml:"b_id"`
	Rows  []ComparisonRow      `json:"rows" yaml:"rows"`
	Table []ComparisonTableRow `json:"table" yaml:"table"`
}

// Compare looks up the first record for each entity and reshapes the
// requested metrics into long form, A before B for every metric. A nil
// metrics slice means ComparisonMetrics.
func Compare(ds *dataset.Dataset, a, b EntityRef, metrics []Metric) (*Comparison, error) {
	if metrics == nil {
		metrics = ComparisonMetrics
	}
	for _, m := range metrics {
		if err := checkFields(ds, m.Field); err != nil {
			return nil, err
		}
	}
	ra, ok := ds.Find(a.Country, a.City)
	if !ok {
		return nil, &EntityNotFoundError{Entity: a}
	}
	rb, ok := ds.Find(b.Country, b.City)
	if !ok {
		return nil, &EntityNotFoundError{Entity: b}
	}

	idA, idB := entityIDs(a, b)
	cmp := &Comparison{
		A:     a,
		B:     b,
		AID:   idA,
		BID:   idB,
		Rows:  make([]ComparisonRow, 0, 2*len(metrics)),
		Table: make([]ComparisonTableRow, 0, len(metrics)),
	}
	for _, m := range metrics {
		va, vb := ra.Value(m.Field), rb.Value(m.Field)
		cmp.Rows = append(cmp.Rows,
			ComparisonRow{Metric: m.Label, Entity: idA, Value: va},
			ComparisonRow{Metric: m.Label, Entity: idB, Value: vb},
		)
		cmp.Table = append(cmp.Table, ComparisonTableRow{Metric: m.Label, A: va, B: vb})
	}
	return cmp, nil
}

// entityIDs labels the two entities by city name, falling back to
// "City, Country" and then to numbered suffixes so the labels never
// collide.
func entityIDs(a, b EntityRef) (string, string) {
	idA, idB := a.City, b.City
	if idA == idB {
		idA, idB = a.String(), b.String()
	}
	if idA == idB {
		idA, idB = idA+" (1)", idB+" (2)"
	}
	return idA, idB
}
