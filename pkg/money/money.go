package money

import "github.com/shopspring/decimal"

// All currency amounts carry exactly 2 fractional digits. Components are
// always rounded at the point they are computed, never accumulated as floats.

var Hundred = decimal.NewFromInt(100)

// Round2 rounds to 2 decimal places, half up.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Ratio returns num/den, or zero when den is zero.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// MonthlyRate converts an annual rate (e.g. 0.055) to its monthly fraction.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(decimal.NewFromInt(12))
}
