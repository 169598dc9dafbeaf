// Package pricing composes cart line items, an optional discount and
// shipping into an order pricing summary.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/discount"
)

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice decimal.Decimal
}

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	ShippingCost     decimal.Decimal
	ShippingDiscount decimal.Decimal
	Total            decimal.Decimal
}

// Subtotal sums qty times unit price across items, skipping non-positive
// quantities.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

// Compute builds a pricing summary. A nil code means no discount applies.
func Compute(items []Item, code *discount.Code, shipping decimal.Decimal) Summary {
	subtotal := Subtotal(items)
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}
	if code == nil {
		return Summary{
			Subtotal:     subtotal,
			Discount:     decimal.Zero,
			ShippingCost: shipping,
			Total:        subtotal.Add(shipping),
		}
	}
	app := discount.Apply(*code, subtotal, shipping)
	return Summary{
		Subtotal:         app.Subtotal,
		Discount:         app.DiscountAmount,
		ShippingCost:     shipping,
		ShippingDiscount: app.ShippingDiscount,
		Total:            app.FinalTotal,
	}
}
