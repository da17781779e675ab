// internal/app/system/money/money.go

// Package money handles the heterogeneous price strings the external
// services emit ("₹2,800/quintal", "100", "Rs. 45 per kg").
//
// Amount is the structured form preferred at the source. ParseAmount is
// the deliberately lossy fallback for records that still carry free-text
// display strings: it takes the leading numeric value and drops the
// currency and unit.
package money

import (
	"strconv"
	"strings"
	"unicode"
)

// Amount is a structured price: value plus the currency and per-unit
// information the display-string form loses.
type Amount struct {
	Value    float64
	Currency string // e.g. "INR"
	Unit     string // e.g. "quintal", "kg"
}

// ParseAmount extracts the leading numeric value from a free-text price
// string. Thousands separators are dropped; a decimal point is honored.
// Strings with no digits parse to 0. Ranges ("₹40-60/kg") take the first
// number.
func ParseAmount(s string) float64 {
	var b strings.Builder
	seenDigit := false
	seenDot := false

	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			seenDigit = true
		case r == ',' && seenDigit && !seenDot:
			// thousands separator inside the number
		case r == '.' && seenDigit && !seenDot:
			b.WriteRune(r)
			seenDot = true
		default:
			if seenDigit {
				v, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64)
				if err != nil {
					return 0
				}
				return v
			}
		}
	}

	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// Sum totals the parsed values of a slice of price strings. Unparseable
// entries contribute 0, matching the dashboard display behavior.
func Sum(prices []string) float64 {
	var total float64
	for _, p := range prices {
		total += ParseAmount(p)
	}
	return total
}
