package billing

import (
	"math"

	"github.com/flymidia/contracts-service/internal/model"
)

// ComputeTotal derives a contract total from its line items and an optional
// percentage discount. The same function backs both the live preview and the
// persisted total, so the two can never drift.
//
// Coercion rules: a quantity below 1 counts as 1 (the entry form default),
// a NaN or negative unit price counts as 0. One bad item degrades to zero
// instead of failing the whole computation.
//
// The discount is applied as-is, without clamping to [0,100]; out-of-range
// values produce inflated or negative totals, same as the system always has.
//
// Rounding is half-away-from-zero to 2 decimals.
func ComputeTotal(items []model.LineItem, discountPercent float64) float64 {
	var total float64
	for _, item := range items {
		total += Subtotal(item)
	}

	if discountPercent > 0 {
		total -= total * discountPercent / 100
	}
	return Round2(total)
}

// Subtotal is the contribution of a single line item, after coercion.
func Subtotal(item model.LineItem) float64 {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	price := item.UnitPrice
	if math.IsNaN(price) || price < 0 {
		price = 0
	}
	return price * float64(qty)
}

// Round2 rounds half-away-from-zero to 2 fractional digits.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
