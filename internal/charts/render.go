package charts

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/views"
	"gonum.org/v1/plot"
)

// ErrUnknownView is returned by Render for a name outside Views.
var ErrUnknownView = errors.New("unknown chart view")

// Request carries the selector state of a chart. Empty fields fall back
// to the dashboard defaults.
type Request struct {
	Field   string
	Country string
	TopN    int
	A, B    views.EntityRef
	Fields  []string

	// Limit caps the overview bars; 0 draws every country.
	Limit int
}

// Render computes the named view over ds and plots it.
func Render(ds *dataset.Dataset, view string, req Request) (*plot.Plot, error) {
	switch view {
	case "overview":
		field := or(req.Field, views.DefaultMapField)
		rows, err := views.AggregateByCountry(ds, field)
		if err != nil {
			return nil, err
		}
		return Overview(rows, field, req.Limit)
	case "country":
		n := req.TopN
		if n == 0 {
			n = views.DefaultTopN
		}
		d, err := views.NewCountryDetail(ds, req.Country, or(req.Field, views.DefaultRankField), n)
		if err != nil {
			return nil, err
		}
		return TopCities(d)
	case "compare":
		c, err := views.Compare(ds, req.A, req.B, nil)
		if err != nil {
			return nil, err
		}
		return Comparison(c)
	case "insights":
		m, err := views.CorrelationMatrix(ds, req.Fields)
		if err != nil {
			return nil, err
		}
		return Correlation(m)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
