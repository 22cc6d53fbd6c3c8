package views

import (
	"sort"

	"github.com/KaramelBytes/costboard/internal/dataset"
)

// DefaultMapField feeds the world map on the overview tab.
const DefaultMapField = dataset.FieldLeatherShoes

// CountryMean is one row of the country aggregate.
type CountryMean struct {
	Country string        `json:"country" yaml:"country"`
	Mean    dataset.Value `json:"mean" yaml:"mean"`
	// Count is the number of non-null values behind Mean.
	Count int `json:"count" yaml:"count"`
	// Cities is the number of records for the country.
	Cities int `json:"cities" yaml:"cities"`
}

// AggregateByCountry averages field per country. Countries are keyed by
// exact string equality and returned sorted by name. A country without
// any value for field gets a null mean.
func AggregateByCountry(ds *dataset.Dataset, field string) ([]CountryMean, error) {
	if err := checkFields(ds, field); err != nil {
		return nil, err
	}
	groups := map[string][]dataset.Record{}
	for _, r := range ds.Records() {
		groups[r.Country] = append(groups[r.Country], r)
	}
	out := make([]CountryMean, 0, len(groups))
	for country, recs := range groups {
		mean, n := meanOf(recs, field)
		out = append(out, CountryMean{Country: country, Mean: mean, Count: n, Cities: len(recs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out, nil
}
