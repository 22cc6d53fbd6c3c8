package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/views"
)

// Options selects what the report covers. Zero values fall back to the
// dashboard defaults; an empty Country or a zero A/B skips that section.
type Options struct {
	MapField   string
	RankField  string
	TopN       int
	Country    string
	A, B       views.EntityRef
	CorrFields []string

	// PairLimit caps the correlation pairs listed; 0 means 10.
	PairLimit int
}

// Report gathers every dashboard view for one dataset.
type Report struct {
	Name       string               `json:"name" yaml:"name"`
	Rows       int                  `json:"rows" yaml:"rows"`
	Cols       []ColumnSummary      `json:"columns" yaml:"columns"`
	MapField   string               `json:"map_field" yaml:"map_field"`
	Overview   []views.CountryMean  `json:"overview" yaml:"overview"`
	Country    *views.CountryDetail `json:"country,omitempty" yaml:"country,omitempty"`
	Comparison *views.Comparison    `json:"comparison,omitempty" yaml:"comparison,omitempty"`
	Corr       *views.CorrMatrix    `json:"correlations,omitempty" yaml:"correlations,omitempty"`
	Warnings   []string             `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	pairLimit int
}

// Build computes the report. Unknown fields and entities are errors;
// an unknown country only yields empty cards. Without CorrFields the
// default insight fields the dataset carries are correlated.
func Build(ds *dataset.Dataset, opt Options) (*Report, error) {
	if opt.MapField == "" {
		opt.MapField = views.DefaultMapField
	}
	if opt.RankField == "" {
		opt.RankField = views.DefaultRankField
	}
	if opt.TopN == 0 {
		opt.TopN = views.DefaultTopN
	}
	if opt.PairLimit == 0 {
		opt.PairLimit = 10
	}
	if opt.CorrFields == nil {
		for _, f := range views.CorrelationFields() {
			if ds.HasField(f) {
				opt.CorrFields = append(opt.CorrFields, f)
			}
		}
	}
	r := &Report{
		Name:      ds.Source(),
		Rows:      ds.Len(),
		Cols:      Summarize(ds),
		MapField:  opt.MapField,
		Warnings:  ds.Warnings(),
		pairLimit: opt.PairLimit,
	}
	var err error
	if r.Overview, err = views.AggregateByCountry(ds, opt.MapField); err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	if opt.Country != "" {
		if r.Country, err = views.NewCountryDetail(ds, opt.Country, opt.RankField, opt.TopN); err != nil {
			return nil, fmt.Errorf("country: %w", err)
		}
	}
	if opt.A != (views.EntityRef{}) && opt.B != (views.EntityRef{}) {
		if r.Comparison, err = views.Compare(ds, opt.A, opt.B, nil); err != nil {
			return nil, fmt.Errorf("compare: %w", err)
		}
	}
	if len(opt.CorrFields) > 0 {
		if r.Corr, err = views.CorrelationMatrix(ds, opt.CorrFields); err != nil {
			return nil, fmt.Errorf("insights: %w", err)
		}
	}
	return r, nil
}

// Markdown renders the report as plain sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		name := c.Name
		if c.Unit != "" {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: non-null %d, missing %.1f%%", name, c.NonNull, c.MissingPct()))
		if c.NonNull > 0 {
			b.WriteString(fmt.Sprintf("; min %s, max %s, mean %s, std %s", c.Min, c.Max, c.Mean, c.Std))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(OverviewMarkdown(r.MapField, r.Overview))
	if r.Country != nil {
		b.WriteString("\n")
		b.WriteString(CountryMarkdown(r.Country))
	}
	if r.Comparison != nil {
		b.WriteString("\n")
		b.WriteString(ComparisonMarkdown(r.Comparison))
	}
	if r.Corr != nil {
		b.WriteString("\n")
		b.WriteString(CorrelationMarkdown(r.Corr, r.pairLimit))
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// OverviewMarkdown renders the country aggregate.
func OverviewMarkdown(field string, rows []views.CountryMean) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[OVERVIEW: %s]\n", dataset.Describe(field).Label))
	b.WriteString(fmt.Sprintf("Countries: %d\n", len(rows)))
	b.WriteString("| Country | Mean | Values | Cities |\n| --- | --- | --- | --- |\n")
	for _, cm := range rows {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %d |\n", safeVal(cm.Country), cm.Mean.Format("%.2f"), cm.Count, cm.Cities))
	}
	return b.String()
}

// CountryMarkdown renders the top cities and metric cards of a country.
func CountryMarkdown(d *views.CountryDetail) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[COUNTRY: %s]\n", safeVal(d.Country)))
	b.WriteString(fmt.Sprintf("Cities: %d\n", d.Cities))
	for _, c := range d.Metrics {
		b.WriteString(fmt.Sprintf("- %s: %s\n", c.Label, c.Display()))
	}
	label := dataset.Describe(d.Field).Label
	b.WriteString(fmt.Sprintf("\nTop %d cities by %s:\n", len(d.TopCities), label))
	for i, r := range d.TopCities {
		b.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, safeVal(r.City), r.Value(d.Field).Format("%.2f")))
	}
	return b.String()
}

// ComparisonMarkdown renders the side-by-side table.
func ComparisonMarkdown(c *views.Comparison) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[COMPARISON: %s vs %s]\n", safeVal(c.A.String()), safeVal(c.B.String())))
	b.WriteString(fmt.Sprintf("| Metric | %s | %s |\n| --- | --- | --- |\n", safeVal(c.AID), safeVal(c.BID)))
	for _, row := range c.Table {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", row.Metric, row.A.Format("%.2f"), row.B.Format("%.2f")))
	}
	return b.String()
}

// CorrelationMarkdown lists the strongest pairs of the matrix.
func CorrelationMarkdown(m *views.CorrMatrix, limit int) string {
	var b strings.Builder
	b.WriteString("[CORRELATIONS]\n")
	pairs := TopPairs(m.Labels, m.Values, m.Pairs, limit)
	if len(pairs) == 0 {
		b.WriteString("- no pair has enough overlapping data\n")
		return b.String()
	}
	for _, p := range pairs {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (n=%d)\n", p.A, p.B, p.R, p.N))
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
