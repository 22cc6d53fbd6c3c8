package dataset

import "strings"

// Identity columns.
const (
	ColCountry  = "country"
	ColCity     = "city"
	ColProvince = "province"
)

// ProvinceDefault fills province when the source does not carry it.
const ProvinceDefault = "N/A"

// Numeric columns of the Numbeo cost-of-living export.
const (
	FieldMealInexpensive = "Meal_Inexpensive_Restaurant_USD"
	FieldCappuccino      = "Cappuccino_Restaurant_USD"
	FieldMcMeal          = "McMeal_McDonalds_USD"
	FieldRentCentre      = "Apartment_1br_CityCentre_USD"
	FieldRentOutside     = "Apartment_1br_OutsideCentre_USD"
	FieldUtilities       = "Utilities_85m2_Apartment_USD"
	FieldInternet        = "Internet_60Mbps_USD"
	FieldNetSalary       = "Net_Monthly_Salary_USD"
	FieldMortgageRate    = "Mortgage_Rate_Percent_Yearly"
	FieldLeatherShoes    = "Leather_Business_Shoes_USD"
)

// FieldInfo describes a known numeric column.
type FieldInfo struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Unit  string `json:"unit" yaml:"unit"` // USD or %
}

var knownFields = []FieldInfo{
	{FieldMealInexpensive, "Meal (Inexpensive Restaurant)", "USD"},
	{FieldCappuccino, "Cappuccino", "USD"},
	{FieldMcMeal, "McMeal", "USD"},
	{FieldRentCentre, "1BR Rent (City Centre)", "USD"},
	{FieldRentOutside, "1BR Rent (Outside Centre)", "USD"},
	{FieldUtilities, "Utilities (85m2 Apt)", "USD"},
	{FieldInternet, "Internet (60Mbps+)", "USD"},
	{FieldNetSalary, "Net Monthly Salary", "USD"},
	{FieldMortgageRate, "Mortgage Rate (%)", "%"},
	{FieldLeatherShoes, "Leather Business Shoes", "USD"},
}

var knownIndex = func() map[string]FieldInfo {
	m := make(map[string]FieldInfo, len(knownFields))
	for _, f := range knownFields {
		m[f.Name] = f
	}
	return m
}()

// KnownFields returns the catalog of known numeric columns.
func KnownFields() []FieldInfo {
	out := make([]FieldInfo, len(knownFields))
	copy(out, knownFields)
	return out
}

// IsKnownField reports whether name is one of the catalog columns.
func IsKnownField(name string) bool {
	_, ok := knownIndex[name]
	return ok
}

// Describe returns catalog info for name. Columns outside the catalog
// are labelled by their own name; the unit is guessed from the suffix.
func Describe(name string) FieldInfo {
	if f, ok := knownIndex[name]; ok {
		return f
	}
	unit := ""
	switch {
	case strings.HasSuffix(name, "_USD"):
		unit = "USD"
	case strings.Contains(name, "Percent"):
		unit = "%"
	}
	return FieldInfo{Name: name, Label: name, Unit: unit}
}

func isIdentityColumn(name string) bool {
	return name == ColCountry || name == ColCity || name == ColProvince
}
