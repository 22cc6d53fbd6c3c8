package views

import (
	"github.com/KaramelBytes/costboard/internal/dataset"
)

// Metric pairs a display label with a dataset field.
type Metric struct {
	Label string `json:"label" yaml:"label"`
	Field string `json:"field" yaml:"field"`
}

// CountryCardMetrics are the cards shown on the country tab.
var CountryCardMetrics = []Metric{
	{"Avg Meal (Inexpensive)", dataset.FieldMealInexpensive},
	{"Avg Cappuccino", dataset.FieldCappuccino},
	{"Avg McMeal", dataset.FieldMcMeal},
	{"Avg Rent (1BR, Centre)", dataset.FieldRentCentre},
	{"Avg Rent (1BR, Outside)", dataset.FieldRentOutside},
	{"Utilities (85m2 Apt)", dataset.FieldUtilities},
	{"Internet (60 Mbps+)", dataset.FieldInternet},
	{"Monthly Salary (Net)", dataset.FieldNetSalary},
	{"Mortgage Rate (%)", dataset.FieldMortgageRate},
}

// MetricCard is a single averaged metric for a filtered set of records.
type MetricCard struct {
	Metric `yaml:",inline"`

	Unit  string        `json:"unit" yaml:"unit"`
	Value dataset.Value `json:"value" yaml:"value"`
	Count int           `json:"count" yaml:"count"`
}

// Display renders the card value as "$12.34", "3.21%" or "no data".
func (c MetricCard) Display() string {
	if c.Unit == "%" {
		return c.Value.Format("%.2f%%")
	}
	return c.Value.Format("$%.2f")
}

// CountryMetrics averages each card metric over the records of country.
// Fields absent from the dataset yield null cards.
func CountryMetrics(ds *dataset.Dataset, country string) []MetricCard {
	recs := ds.Filter(func(r dataset.Record) bool { return r.Country == country })
	return metricCards(recs, CountryCardMetrics)
}

func metricCards(recs []dataset.Record, metrics []Metric) []MetricCard {
	cards := make([]MetricCard, 0, len(metrics))
	for _, m := range metrics {
		v, n := meanOf(recs, m.Field)
		cards = append(cards, MetricCard{Metric: m, Unit: dataset.Describe(m.Field).Unit, Value: v, Count: n})
	}
	return cards
}

// CountryDetail bundles the country tab.
type CountryDetail struct {
	Country   string           `json:"country" yaml:"country"`
	Field     string           `json:"field" yaml:"field"`
	Cities    int              `json:"cities" yaml:"cities"`
	TopCities []dataset.Record `json:"top_cities" yaml:"top_cities"`
	Metrics   []MetricCard     `json:"metrics" yaml:"metrics"`
}

// NewCountryDetail computes the top-n cities by field and the metric
// cards for country. An unknown country yields an empty detail with
// null cards.
func NewCountryDetail(ds *dataset.Dataset, country, field string, n int) (*CountryDetail, error) {
	top, err := TopNByField(ds, country, field, n)
	if err != nil {
		return nil, err
	}
	recs := ds.Filter(func(r dataset.Record) bool { return r.Country == country })
	return &CountryDetail{
		Country:   country,
		Field:     field,
		Cities:    len(recs),
		TopCities: top,
		Metrics:   metricCards(recs, CountryCardMetrics),
	}, nil
}
