package dataset

import "sort"

// Record is one city's cost-of-living snapshot.
type Record struct {
	// Index is the zero-based load order.
	Index    int              `json:"-" yaml:"-"`
	Country  string           `json:"country" yaml:"country"`
	City     string           `json:"city" yaml:"city"`
	Province string           `json:"province" yaml:"province"`
	Values   map[string]Value `json:"values" yaml:"values"`
}

// Value returns the record's value for field; missing fields are null.
func (r Record) Value(field string) Value {
	return r.Values[field]
}

// Dataset is the immutable, ordered collection of records loaded from a
// source. It is safe for concurrent readers.
type Dataset struct {
	source   string
	fields   []string
	fieldSet map[string]struct{}
	records  []Record
	warnings []string
}

// New builds a Dataset from already-parsed records. fields lists the
// numeric columns in source order. Record indexes are reassigned to
// their position.
func New(source string, fields []string, records []Record) *Dataset {
	d := &Dataset{
		source:   source,
		fields:   append([]string(nil), fields...),
		fieldSet: make(map[string]struct{}, len(fields)),
		records:  make([]Record, len(records)),
	}
	for _, f := range fields {
		d.fieldSet[f] = struct{}{}
	}
	for i, r := range records {
		r.Index = i
		if r.Values == nil {
			r.Values = map[string]Value{}
		}
		d.records[i] = r
	}
	return d
}

// Source is the path the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the records in load order. The slice is a copy; the
// Values maps are shared and must not be modified.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Fields returns the numeric columns in source order.
func (d *Dataset) Fields() []string {
	return append([]string(nil), d.fields...)
}

// HasField reports whether field is a numeric column of the dataset.
func (d *Dataset) HasField(field string) bool {
	_, ok := d.fieldSet[field]
	return ok
}

// Warnings returns notes collected while loading.
func (d *Dataset) Warnings() []string {
	return append([]string(nil), d.warnings...)
}

// Filter returns the records matching keep, in load order.
func (d *Dataset) Filter(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the first record in load order for (country, city).
func (d *Dataset) Find(country, city string) (Record, bool) {
	for _, r := range d.records {
		if r.Country == country && r.City == city {
			return r, true
		}
	}
	return Record{}, false
}

// Countries returns the distinct countries, sorted.
func (d *Dataset) Countries() []string {
	seen := map[string]struct{}{}
	for _, r := range d.records {
		seen[r.Country] = struct{}{}
	}
	return sortedKeys(seen)
}

// Cities returns the distinct cities of country, sorted.
func (d *Dataset) Cities(country string) []string {
	seen := map[string]struct{}{}
	for _, r := range d.records {
		if r.Country == country {
			seen[r.City] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
