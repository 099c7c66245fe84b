package core

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept for amounts.
const AmountPlaces = 2

// Amounts written with an exponent outside this range are rejected before
// any arithmetic, since rescaling them allocates a power of ten that large.
const (
	minAmountExponent = -20
	maxAmountExponent = 20
)

// MaxAmount is the largest accepted transaction amount. Its value in cents
// fits an int64 column with room to spare.
var MaxAmount = decimal.New(1, 15)

// RoundAmount rounds half away from zero to cents.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// ToCents converts an amount to integer cents after rounding.
func ToCents(d decimal.Decimal) int64 {
	return RoundAmount(d).Shift(AmountPlaces).IntPart()
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -AmountPlaces)
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

func itoa(n int) string { return strconv.Itoa(n) }
