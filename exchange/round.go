package exchange

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// significantPlaces fractional digits kept after any leading run of fractional zeros
const significantPlaces = 2

var one = decimal.NewFromInt(1)

// Convert multiplies a whole amount by a rate and rounds the product for display.
func Convert(amount *big.Int, rate decimal.Decimal) decimal.Decimal {
	product := decimal.NewFromBigInt(amount, 0).Mul(rate)
	if product.IsZero() {
		return decimal.Zero
	}
	return Round(product)
}

// Round keeps the leading zeros of the fractional part plus two more digits, rounding half up.
// 12.3456 becomes 12.35 and 123.0000000023456 becomes 123.0000000023.
// Numbers with no more digits than that are returned unchanged.
func Round(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}

	frac := d.Sub(d.Truncate(0)).Abs()
	if frac.IsZero() {
		return d
	}

	var zeros int32
	for frac.Shift(zeros + 1).LessThan(one) {
		zeros++
	}

	places := zeros + significantPlaces
	if -d.Exponent() <= places {
		return d
	}
	// Round is half away from zero, which is half up for the non-negative amounts converted here
	return d.Round(places)
}

// Format renders a converted amount with at least two decimal places
func Format(d decimal.Decimal) string {
	s := d.String()
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 < significantPlaces {
		return d.StringFixed(significantPlaces)
	}
	return s
}
