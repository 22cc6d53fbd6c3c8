package charts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/costboard/internal/dataset"
	"github.com/KaramelBytes/costboard/internal/views"
	"gonum.org/v1/plot"
)

func fixture() *dataset.Dataset {
	fields := views.CorrelationFields()
	rec := func(country, city string, v ...float64) dataset.Record {
		vals := map[string]dataset.Value{}
		for i, x := range v {
			vals[fields[i]] = dataset.Some(x)
		}
		return dataset.Record{Country: country, City: city, Values: vals}
	}
	return dataset.New("mem", fields, []dataset.Record{
		rec("USA", "NYC", 25, 3000, 65, 5000, 6.5),
		rec("USA", "LA", 22, 2500, 60, 4500),
		rec("France", "Paris", 18, 1800, 30, 3000, 3.9),
		rec("France", "Lyon", 15, 1100),
	})
}

func assertPNG(t *testing.T, name string, p *plot.Plot, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, p, Size{Width: 4, Height: 3}); err != nil {
		t.Fatalf("%s: WritePNG: %v", name, err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("%s: output is not a PNG (%d bytes)", name, buf.Len())
	}
}

func TestChartsRender(t *testing.T) {
	ds := fixture()

	ov, err := views.AggregateByCountry(ds, dataset.FieldRentCentre)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Overview(ov, dataset.FieldRentCentre, 10)
	assertPNG(t, "overview", p, err)

	d, err := views.NewCountryDetail(ds, "USA", dataset.FieldRentCentre, 10)
	if err != nil {
		t.Fatal(err)
	}
	p, err = TopCities(d)
	assertPNG(t, "country", p, err)

	cmp, err := views.Compare(ds, views.EntityRef{Country: "USA", City: "LA"}, views.EntityRef{Country: "France", City: "Paris"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err = Comparison(cmp)
	assertPNG(t, "compare", p, err)

	m, err := views.CorrelationMatrix(ds, nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err = Correlation(m)
	assertPNG(t, "insights", p, err)
}

func TestOverviewSkipsNullAndLimits(t *testing.T) {
	rows := []views.CountryMean{
		{Country: "A", Mean: dataset.Some(1)},
		{Country: "B"},
		{Country: "C", Mean: dataset.Some(3)},
	}
	if got := rankCountries(rows, 1); len(got) != 1 || got[0].Country != "C" {
		t.Fatalf("rankCountries(1) = %+v", got)
	}
	if got := rankCountries(rows, 0); len(got) != 2 || got[1].Country != "A" {
		t.Fatalf("rankCountries(0) = %+v", got)
	}
	if _, err := Overview([]views.CountryMean{{Country: "B"}}, dataset.FieldRentCentre, 0); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestTopCitiesEmpty(t *testing.T) {
	if _, err := TopCities(&views.CountryDetail{Country: "Atlantis", Field: dataset.FieldRentCentre}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	ov, _ := views.AggregateByCountry(fixture(), dataset.FieldNetSalary)
	p, err := Overview(ov, dataset.FieldNetSalary, 0)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "charts", "overview.png")
	if err := SavePNG(path, p, DefaultSize); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}
}

func TestRenderDispatch(t *testing.T) {
	ds := fixture()
	p, err := Render(ds, "country", Request{Country: "France"})
	assertPNG(t, "render country", p, err)

	p, err = Render(ds, "overview", Request{Field: dataset.FieldNetSalary})
	assertPNG(t, "render overview", p, err)

	if _, err := Render(ds, "pie", Request{}); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected ErrUnknownView, got %v", err)
	}
	_, err = Render(ds, "compare", Request{
		A: views.EntityRef{Country: "USA", City: "NYC"},
		B: views.EntityRef{Country: "Spain", City: "Madrid"},
	})
	if !errors.Is(err, views.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
	// the fixture has no leather column
	if _, err := Render(ds, "overview", Request{}); !errors.Is(err, views.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}
