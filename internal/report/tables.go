package report

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/views"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	return t
}

// OverviewTable writes the country aggregate.
func OverviewTable(w io.Writer, field string, rows []views.CountryMean) {
	t := newTable(w, "Country", dataset.Describe(field).Label, "Values", "Cities")
	for _, cm := range rows {
		t.Append([]string{cm.Country, cm.Mean.Format("%.2f"), fmt.Sprint(cm.Count), fmt.Sprint(cm.Cities)})
	}
	t.Render()
}

// ListTable writes a single-column list such as countries or cities.
func ListTable(w io.Writer, header string, items []string) {
	t := newTable(w, header)
	for _, it := range items {
		t.Append([]string{it})
	}
	t.Render()
}

// CountryTable writes the metric cards and then the ranked cities.
func CountryTable(w io.Writer, d *views.CountryDetail) {
	cards := newTable(w, "Metric", "Value")
	for _, c := range d.Metrics {
		cards.Append([]string{c.Label, c.Display()})
	}
	cards.Render()

	fmt.Fprintln(w)
	top := newTable(w, "#", "City", "Province", dataset.Describe(d.Field).Label)
	for i, r := range d.TopCities {
		top.Append([]string{fmt.Sprint(i + 1), r.City, r.Province, r.Value(d.Field).Format("%.2f")})
	}
	top.Render()
}

// ComparisonTable writes the side-by-side comparison.
func ComparisonTable(w io.Writer, c *views.Comparison) {
	t := newTable(w, "Metric", c.AID, c.BID)
	for _, row := range c.Table {
		t.Append([]string{row.Metric, row.A.Format("%.2f"), row.B.Format("%.2f")})
	}
	t.Render()
}

// CorrelationTable writes the full matrix with "n/a" for null cells.
func CorrelationTable(w io.Writer, m *views.CorrMatrix) {
	t := newTable(w, append([]string{""}, m.Labels...)...)
	for i, label := range m.Labels {
		row := []string{label}
		for j := range m.Labels {
			v := m.Values[i][j]
			if !v.Valid {
				row = append(row, "n/a")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", v.Float64))
		}
		t.Append(row)
	}
	t.Render()
}
