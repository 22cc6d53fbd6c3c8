package dataset

import (
	"encoding/json"
	"fmt"
	"math"
)

// NoData is the text shown wherever a Value is null.
const NoData = "no data"

// Value is a nullable numeric cell. The zero Value is null.
type Value struct {
	Float64 float64
	Valid   bool
}

// Some returns a populated Value. NaN and ±Inf are treated as null.
func Some(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float64: f, Valid: true}
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Get returns the float and whether it is populated.
func (v Value) Get() (float64, bool) { return v.Float64, v.Valid }

// Or returns the float, or def when null.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.Float64
}

// Format renders the value with the given verb, or NoData when null.
func (v Value) Format(verb string) string {
	if !v.Valid {
		return NoData
	}
	return fmt.Sprintf(verb, v.Float64)
}

func (v Value) String() string { return v.Format("%.4g") }

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*v = Some(f)
	return nil
}

// MarshalYAML emits null for an invalid value.
func (v Value) MarshalYAML() (interface{}, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Float64, nil
}
