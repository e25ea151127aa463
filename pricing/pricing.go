// Package pricing computes the prices shown for cart lines, orders and
// catalog entries. Every view goes through these functions so the numbers
// never drift between screens.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// EffectivePrice is unitPrice after discountPercent, rounded to cents.
// The discount is not clamped; callers validate it before storing.
func EffectivePrice(unitPrice, discountPercent float64) decimal.Decimal {
	price := decimal.NewFromFloat(unitPrice)
	if discountPercent == 0 {
		return price.Round(2)
	}
	d := decimal.NewFromFloat(discountPercent)
	return price.Mul(hundred.Sub(d)).Div(hundred).Round(2)
}

// LineTotal is the effective price multiplied by quantity.
func LineTotal(unitPrice, discountPercent float64, quantity int) decimal.Decimal {
	return EffectivePrice(unitPrice, discountPercent).Mul(decimal.NewFromInt(int64(quantity)))
}

// Format renders an amount with exactly two decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
