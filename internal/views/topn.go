package views

import (
	"sort"

	"github.com/KaramelBytes/costboard/internal/dataset"
)

// DefaultRankField ranks cities on the country tab.
const DefaultRankField = dataset.FieldRentCentre

// DefaultTopN is the number of cities on the country tab.
const DefaultTopN = 10

// TopNByField returns up to n records of country sorted by field,
// largest first. Ties keep load order; records with a null field follow
// every populated one. n <= 0 means no limit.
func TopNByField(ds *dataset.Dataset, country, field string, n int) ([]dataset.Record, error) {
	if err := checkFields(ds, field); err != nil {
		return nil, err
	}
	recs := ds.Filter(func(r dataset.Record) bool { return r.Country == country })
	sortDescending(recs, field)
	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

func sortDescending(recs []dataset.Record, field string) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, aok := recs[i].Value(field).Get()
		b, bok := recs[j].Value(field).Get()
		if aok != bok {
			return aok
		}
		return aok && a > b
	})
}
