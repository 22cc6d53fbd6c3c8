package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"
)

var fixtureRows = []string{
	"city,country,Apartment_1br_CityCentre_USD,Net_Monthly_Salary_USD,Mortgage_Rate_Percent_Yearly,Population",
	"NYC,USA,3000,5000,6.5,8000000",
	"LA,USA,2500,4500,,3900000",
	"Paris,France,1800,3000,3.9,2100000",
	",France,900,1500,4.0,100",
	"Lyon,France,,2400,3.8,",
}

func writeFixture(t *testing.T, name string, rows []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFixture(t, "cost_of_living.csv", fixtureRows)
	ds, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 4 {
		t.Fatalf("expected 4 records (one skipped), got %d", ds.Len())
	}
	wantFields := []string{FieldRentCentre, FieldNetSalary, FieldMortgageRate, "Population"}
	if got := ds.Fields(); strings.Join(got, ",") != strings.Join(wantFields, ",") {
		t.Fatalf("fields = %v, want %v", got, wantFields)
	}
	recs := ds.Records()
	if recs[0].City != "NYC" || recs[0].Index != 0 || recs[3].City != "Lyon" || recs[3].Index != 3 {
		t.Fatalf("unexpected load order: %+v", recs)
	}
	for _, r := range recs {
		if r.Province != ProvinceDefault {
			t.Fatalf("province not defaulted for %s: %q", r.City, r.Province)
		}
	}
	if v := recs[1].Value(FieldMortgageRate); v.Valid {
		t.Fatalf("LA mortgage should be null, got %v", v)
	}
	if v := recs[3].Value(FieldRentCentre); v.Valid {
		t.Fatalf("Lyon rent should be null, got %v", v)
	}
	if v, ok := recs[0].Value(FieldRentCentre).Get(); !ok || v != 3000 {
		t.Fatalf("NYC rent = %v, %v", v, ok)
	}
	warn := strings.Join(ds.Warnings(), "\n")
	if !strings.Contains(warn, "row 5 skipped") {
		t.Fatalf("expected skipped-row warning, got %q", warn)
	}
}

func TestLoadKeepsProvinceColumn(t *testing.T) {
	path := writeFixture(t, "p.csv", []string{
		"country,city,province,Internet_60Mbps_USD",
		"Canada,Toronto,Ontario,60",
		"Canada,Halifax,,55",
	})
	ds, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	recs := ds.Records()
	if recs[0].Province != "Ontario" {
		t.Fatalf("province = %q", recs[0].Province)
	}
	if recs[1].Province != ProvinceDefault {
		t.Fatalf("empty province should default, got %q", recs[1].Province)
	}
}

func TestLoadTextColumnIsNotNumeric(t *testing.T) {
	path := writeFixture(t, "t.csv", []string{
		"country,city,region,McMeal_McDonalds_USD",
		"Japan,Tokyo,Kanto,5.1",
		"Japan,Osaka,Kansai,4.9",
	})
	ds, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.HasField("region") {
		t.Fatalf("text column must not be a numeric field")
	}
	if !ds.HasField(FieldMcMeal) {
		t.Fatalf("missing McMeal field")
	}
}

func TestLoadTSVAndDelimiterOverride(t *testing.T) {
	tsv := writeFixture(t, "data.tsv", []string{
		"country\tcity\tInternet_60Mbps_USD",
		"Spain\tMadrid\t35",
	})
	ds, err := Load(tsv, LoadOptions{})
	if err != nil {
		t.Fatalf("Load tsv: %v", err)
	}
	if ds.Len() != 1 || !ds.Records()[0].Value(FieldInternet).Valid {
		t.Fatalf("unexpected tsv dataset: %+v", ds.Records())
	}

	semi := writeFixture(t, "data.csv", []string{
		"country;city;Internet_60Mbps_USD",
		"Spain;Madrid;35",
	})
	ds, err = Load(semi, LoadOptions{Delimiter: ';'})
	if err != nil {
		t.Fatalf("Load semicolon: %v", err)
	}
	if ds.Records()[0].City != "Madrid" {
		t.Fatalf("unexpected city %q", ds.Records()[0].City)
	}
}

func TestLoadFailuresAreDataUnavailable(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cases := map[string]string{
		"missing":    filepath.Join(dir, "nope.csv"),
		"empty":      empty,
		"no city":    writeFixture(t, "nocity.csv", []string{"country,Internet_60Mbps_USD", "Spain,35"}),
		"header":     writeFixture(t, "header.csv", []string{"country,city,Internet_60Mbps_USD"}),
		"bad quotes": writeFixture(t, "quotes.csv", []string{"country,city", "\"Spain,Madrid"}),
		"dup column": writeFixture(t, "dup.csv", []string{"country,city,city", "Spain,Madrid,Madrid"}),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(path, LoadOptions{})
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrDataUnavailable) {
				t.Fatalf("expected ErrDataUnavailable, got %v", err)
			}
			var du *DataUnavailableError
			if !errors.As(err, &du) || du.Path != path {
				t.Fatalf("expected *DataUnavailableError with path, got %#v", err)
			}
		})
	}
}

func TestLoadDuplicateCities(t *testing.T) {
	rows := []string{
		"country,city,Internet_60Mbps_USD",
		"USA,Portland,70",
		"USA,Portland,65",
	}
	path := writeFixture(t, "dup.csv", rows)
	ds, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(strings.Join(ds.Warnings(), "\n"), "first row wins") {
		t.Fatalf("expected duplicate warning, got %v", ds.Warnings())
	}
	r, ok := ds.Find("USA", "Portland")
	if !ok || r.Value(FieldInternet).Or(0) != 70 {
		t.Fatalf("first match should win, got %+v", r)
	}

	if _, err := Load(path, LoadOptions{StrictUnique: true}); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("strict mode should reject duplicates, got %v", err)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "col.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"country", "city", "Apartment_1br_CityCentre_USD"},
		{"USA", "NYC", 3000},
		{"France", "Paris", 1800.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	_ = f.Close()

	ds, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load xlsx: %v", err)
	}
	r, ok := ds.Find("France", "Paris")
	if !ok || r.Value(FieldRentCentre).Or(0) != 1800.5 {
		t.Fatalf("unexpected Paris record: %+v", r)
	}
	if _, err := Load(path, LoadOptions{Sheet: "Missing"}); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("missing sheet should be DataUnavailable, got %v", err)
	}
}

func TestHolderLoadsOnce(t *testing.T) {
	path := writeFixture(t, "cost_of_living.csv", fixtureRows)
	h := NewHolder(path, LoadOptions{})

	var wg sync.WaitGroup
	results := make([]*Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := h.Get()
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			results[i] = ds
		}(i)
	}
	wg.Wait()
	for _, ds := range results {
		if ds != results[0] {
			t.Fatalf("holder returned different datasets")
		}
	}

	// The source is never re-read once cached.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	ds, err := h.Get()
	if err != nil || ds != results[0] {
		t.Fatalf("expected cached dataset after source removal, got %v, %v", ds, err)
	}
}

func TestHolderCachesFailure(t *testing.T) {
	h := NewHolder(filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	_, err1 := h.Get()
	_, err2 := h.Get()
	if !errors.Is(err1, ErrDataUnavailable) || err1 != err2 {
		t.Fatalf("expected the same DataUnavailable error twice, got %v / %v", err1, err2)
	}
}
