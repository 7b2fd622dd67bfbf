package domain

import "fmt"

// MonthsPerYear is the fixed length of every rainfall profile.
const MonthsPerYear = 12

// Months lists the calendar-month labels in natural order. The system never
// reorders or deduplicates rows; positions are significant.
var Months = [MonthsPerYear]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthlyRain is one row of a rainfall profile. RainyDays is informational
// only; it never enters a formula and may be zero or omitted.
type MonthlyRain struct {
	Month      string  `json:"month"`
	RainfallMM float64 `json:"rainfall_mm"`
	RainyDays  float64 `json:"rainy_days,omitempty"`
}

// RainfallTable is a 12-month rainfall profile in calendar order. The fixed
// array size makes the shape invariant structural; construct from external
// input via NewRainfallTable.
type RainfallTable [MonthsPerYear]MonthlyRain

// NewRainfallTable builds a table from externally supplied rows. It enforces
// the 12-row shape and nothing else: values are accepted as-is, including
// negative or implausible ones.
func NewRainfallTable(rows []MonthlyRain) (RainfallTable, error) {
	if len(rows) != MonthsPerYear {
		return RainfallTable{}, fmt.Errorf("%w: got %d rows", ErrShapeMismatch, len(rows))
	}
	var t RainfallTable
	copy(t[:], rows)
	return t, nil
}

// Rows returns a mutable copy of the profile, for callers that edit rows
// before rebuilding a table.
func (t RainfallTable) Rows() []MonthlyRain {
	rows := make([]MonthlyRain, MonthsPerYear)
	copy(rows, t[:])
	return rows
}

// TotalMM is the annual rainfall depth in millimeters.
func (t RainfallTable) TotalMM() float64 {
	var total float64
	for _, m := range t {
		total += m.RainfallMM
	}
	return total
}

// DefaultProfile returns the illustrative temperate-climate profile that
// seeds the editable table (1144 mm/year).
func DefaultProfile() RainfallTable {
	return RainfallTable{
		{Month: "Jan", RainfallMM: 8, RainyDays: 1.8},
		{Month: "Feb", RainfallMM: 23, RainyDays: 3.0},
		{Month: "Mar", RainfallMM: 46, RainyDays: 7.5},
		{Month: "Apr", RainfallMM: 89, RainyDays: 13},
		{Month: "May", RainfallMM: 137, RainyDays: 17.8},
		{Month: "Jun", RainfallMM: 193, RainyDays: 20.2},
		{Month: "Jul", RainfallMM: 155, RainyDays: 16.5},
		{Month: "Aug", RainfallMM: 127, RainyDays: 15.4},
		{Month: "Sep", RainfallMM: 183, RainyDays: 20.6},
		{Month: "Oct", RainfallMM: 140, RainyDays: 17.4},
		{Month: "Nov", RainfallMM: 33, RainyDays: 5.1},
		{Month: "Dec", RainfallMM: 10, RainyDays: 2.0},
	}
}
