// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Quantity is a whole-piece stock count. Inventory here is tracked in
// indivisible units, so a plain int64 maps directly to BIGINT.
type Quantity = int64

// MulQuantity returns price multiplied by a whole-unit count.
// Every stored total cost goes through this, never through client input.
func MulQuantity(price Money, qty Quantity) Money {
	return price.Mul(decimal.NewFromInt(qty))
}

// Percent returns part/whole*100 rounded to 2 places, or 0 when whole is
// zero. All report ratios use this to avoid division by zero.
func Percent(part, whole Money) Money {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}

// PercentInt is Percent over raw counts.
func PercentInt(part, whole int64) Money {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Div(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).Round(2)
}

// Ratio returns part/whole rounded to 4 places, or 0 when whole is zero.
func Ratio(part, whole Money) Money {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Round(4)
}
