// Package charts renders the dashboard views as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"

	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/utils"
	"github.com/KaramelBytes/costboard/internal/views"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a view has nothing to draw.
var ErrNoData = errors.New("nothing to plot")

// Views lists the chart names accepted by Render.
var Views = []string{"overview", "country", "compare", "insights"}

var barColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// Size is a chart size in inches.
type Size struct {
	Width, Height float64
}

// DefaultSize matches the chart_width/chart_height defaults.
var DefaultSize = Size{Width: 8, Height: 5}

func (s Size) lengths() (vg.Length, vg.Length) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = DefaultSize.Width
	}
	if h <= 0 {
		h = DefaultSize.Height
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// WritePNG encodes p as PNG onto w.
func WritePNG(w io.Writer, p *plot.Plot, size Size) error {
	width, height := size.lengths()
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG renders p and writes it atomically to path.
func SavePNG(path string, p *plot.Plot, size Size) error {
	var buf bytes.Buffer
	if err := WritePNG(&buf, p, size); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// Overview plots the country means, largest first. Countries with a null
// mean are skipped; limit > 0 keeps only the first limit bars.
func Overview(rows []views.CountryMean, field string, limit int) (*plot.Plot, error) {
	kept := rankCountries(rows, limit)
	if len(kept) == 0 {
		return nil, ErrNoData
	}
	values := make(plotter.Values, len(kept))
	names := make([]string, len(kept))
	for i, r := range kept {
		values[i] = r.Mean.Float64
		names[i] = r.Country
	}

	p := plot.New()
	label := dataset.Describe(field).Label
	p.Title.Text = "Average " + label + " by Country"
	p.Y.Label.Text = label
	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	return p, nil
}

func rankCountries(rows []views.CountryMean, limit int) []views.CountryMean {
	kept := make([]views.CountryMean, 0, len(rows))
	for _, r := range rows {
		if r.Mean.Valid {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Mean.Float64 > kept[j].Mean.Float64 })
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// TopCities plots the ranked cities of a country as horizontal bars,
// largest at the top. Null values are drawn as empty bars.
func TopCities(d *views.CountryDetail) (*plot.Plot, error) {
	n := len(d.TopCities)
	if n == 0 {
		return nil, ErrNoData
	}
	values := make(plotter.Values, n)
	names := make([]string, n)
	// NominalY counts from the bottom
	for i, r := range d.TopCities {
		values[n-1-i] = r.Value(d.Field).Or(0)
		names[n-1-i] = r.City
	}

	p := plot.New()
	label := dataset.Describe(d.Field).Label
	p.Title.Text = fmt.Sprintf("Top %d Cities in %s by %s", n, d.Country, label)
	p.X.Label.Text = label
	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(names...)
	p.X.Min = 0
	return p, nil
}

// Comparison plots grouped bars, one series per city.
func Comparison(c *views.Comparison) (*plot.Plot, error) {
	if len(c.Table) == 0 {
		return nil, ErrNoData
	}
	a := make(plotter.Values, len(c.Table))
	b := make(plotter.Values, len(c.Table))
	names := make([]string, len(c.Table))
	for i, row := range c.Table {
		a[i] = row.A.Or(0)
		b[i] = row.B.Or(0)
		names[i] = row.Metric
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", c.AID, c.BID)
	p.Y.Label.Text = "Value"
	w := vg.Points(16)
	for i, series := range []struct {
		name string
		vals plotter.Values
	}{{c.AID, a}, {c.BID, b}} {
		bars, err := plotter.NewBarChart(series.vals, w)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = w * vg.Length(2*i-1) / 2
		p.Add(bars)
		p.Legend.Add(series.name, bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	return p, nil
}

// corrGrid adapts a matrix to plotter.GridXYZ. Column c is Fields[c] and
// row r is Fields[r]; null cells are NaN so the heat map paints them
// with its NaN color.
type corrGrid struct{ m *views.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Fields), len(g.m.Fields) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[r][c].Or(math.NaN()) }

// Correlation plots the matrix as a heat map over [-1, 1] with the
// coefficient printed in every cell and "n/a" where it is null.
func Correlation(m *views.CorrMatrix) (*plot.Plot, error) {
	n := len(m.Fields)
	if n == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = "Correlation Between Cost Indicators"

	hm := plotter.NewHeatMap(corrGrid{m}, palette.Heat(20, 1))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 210}
	p.Add(hm)

	var xys plotter.XYs
	var texts []string
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			if v, ok := m.Values[r][c].Get(); ok {
				texts = append(texts, fmt.Sprintf("%.2f", v))
			} else {
				texts = append(texts, "n/a")
			}
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	p.NominalX(m.Labels...)
	p.NominalY(m.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}
