package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// LoadOptions controls how a source file is read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, derived from the file extension.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// StrictUnique rejects sources with duplicate (country, city) pairs.
	// Otherwise duplicates are reported in Warnings and the first row wins.
	StrictUnique bool
}

// naValues are the cell spellings treated as missing.
var naValues = []string{"", "NA", "N/A", "NaN", "nan", "null"}

// Load reads a cost-of-living table from path. Any failure is a
// *DataUnavailableError.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	raw, err := readRows(path, opt)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, unavailable(path, "source is empty", nil)
	}
	header, err := normalizeHeader(raw[0])
	if err != nil {
		return nil, unavailable(path, "bad header", err)
	}
	for _, required := range []string{ColCountry, ColCity} {
		if indexOf(header, required) < 0 {
			return nil, unavailable(path, fmt.Sprintf("missing required column %q", required), nil)
		}
	}

	var warnings []string
	rows, lines, w := normalizeRows(raw[1:], len(header))
	warnings = append(warnings, w...)
	if len(rows) == 0 {
		return nil, unavailable(path, "no data rows", nil)
	}

	types := columnTypes(header, rows)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	records = append(records, rows...)
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, unavailable(path, "parse table", df.Err)
	}

	ds, w, err := fromFrame(path, df, header, types, lines, opt)
	if err != nil {
		return nil, err
	}
	ds.warnings = append(warnings, w...)
	return ds, nil
}

func readRows(path string, opt LoadOptions) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return readXLSX(path, opt.Sheet)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(path, "open source", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim
	rows, err := r.ReadAll()
	if err != nil {
		return nil, unavailable(path, "read csv", err)
	}
	return rows, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, unavailable(path, "open workbook", err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, unavailable(path, "workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, unavailable(path, fmt.Sprintf("read sheet %q", sheet), err)
	}
	return rows, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func normalizeHeader(raw []string) ([]string, error) {
	header := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		seen[h] = true
		header[i] = h
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("no columns")
	}
	return header, nil
}

// normalizeRows trims cells, pads short rows, truncates long ones and
// drops blank rows. lines holds the 1-based source line of each row.
func normalizeRows(raw [][]string, ncol int) (rows [][]string, lines []int, warnings []string) {
	for i, rec := range raw {
		line := i + 2
		row := make([]string, ncol)
		blank := true
		for j := 0; j < len(rec) && j < ncol; j++ {
			row[j] = strings.TrimSpace(rec[j])
			if row[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if len(rec) > ncol {
			warnings = append(warnings, fmt.Sprintf("row %d has %d cells, header has %d; extra cells ignored", line, len(rec), ncol))
		}
		rows = append(rows, row)
		lines = append(lines, line)
	}
	return rows, lines, warnings
}

func columnTypes(header []string, rows [][]string) map[string]series.Type {
	types := make(map[string]series.Type, len(header))
	for j, name := range header {
		switch {
		case isIdentityColumn(name):
			types[name] = series.String
		case IsKnownField(name), numericColumn(rows, j):
			types[name] = series.Float
		default:
			types[name] = series.String
		}
	}
	return types
}

// numericColumn reports whether every non-missing cell of column j parses
// as a number and at least one does.
func numericColumn(rows [][]string, j int) bool {
	seen := false
	for _, r := range rows {
		v := r[j]
		if isNA(v) {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func isNA(v string) bool {
	for _, na := range naValues {
		if v == na {
			return true
		}
	}
	return false
}

func fromFrame(path string, df dataframe.DataFrame, header []string, types map[string]series.Type, lines []int, opt LoadOptions) (*Dataset, []string, error) {
	var fields []string
	cols := make(map[string]series.Series, len(header))
	for _, name := range header {
		cols[name] = df.Col(name)
		if !isIdentityColumn(name) && types[name] == series.Float {
			fields = append(fields, name)
		}
	}
	countryCol, cityCol := cols[ColCountry], cols[ColCity]
	provCol, hasProvince := cols[ColProvince]

	var warnings []string
	records := make([]Record, 0, df.Nrow())
	firstLine := map[string]int{}
	for i := 0; i < df.Nrow(); i++ {
		line := lines[i]
		country := cellString(countryCol.Elem(i))
		city := cellString(cityCol.Elem(i))
		if country == "" || city == "" {
			warnings = append(warnings, fmt.Sprintf("row %d skipped: missing country or city", line))
			continue
		}
		key := country + "\x00" + city
		if prev, dup := firstLine[key]; dup {
			if opt.StrictUnique {
				return nil, nil, unavailable(path, fmt.Sprintf("duplicate city %s, %s (rows %d and %d)", city, country, prev, line), nil)
			}
			warnings = append(warnings, fmt.Sprintf("duplicate city %s, %s (rows %d and %d); first row wins", city, country, prev, line))
		} else {
			firstLine[key] = line
		}

		province := ProvinceDefault
		if hasProvince {
			if p := cellString(provCol.Elem(i)); p != "" {
				province = p
			}
		}
		values := make(map[string]Value, len(fields))
		for _, f := range fields {
			e := cols[f].Elem(i)
			if e.IsNA() {
				continue
			}
			values[f] = Some(e.Float())
		}
		records = append(records, Record{Country: country, City: city, Province: province, Values: values})
	}
	if len(records) == 0 {
		return nil, nil, unavailable(path, "no usable rows (every row lacks country or city)", nil)
	}
	return New(path, fields, records), warnings, nil
}

func cellString(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	return strings.TrimSpace(e.String())
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
