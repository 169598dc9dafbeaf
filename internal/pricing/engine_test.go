package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/discount"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSubtotalSkipsNonPositiveQty(t *testing.T) {
	items := []Item{
		{Qty: 2, UnitPrice: dec("19.99")},
		{Qty: 0, UnitPrice: dec("100")},
		{Qty: -1, UnitPrice: dec("100")},
	}
	if got := Subtotal(items); !got.Equal(dec("39.98")) {
		t.Fatalf("expected 39.98, got %s", got)
	}
}

func TestComputeWithoutCode(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: dec("80.00")}}
	sum := Compute(items, nil, dec("5.99"))
	if !sum.Total.Equal(dec("85.99")) {
		t.Fatalf("expected total 85.99, got %s", sum.Total)
	}
	if !sum.Discount.IsZero() || !sum.ShippingDiscount.IsZero() {
		t.Fatalf("no code should mean no discounts: %+v", sum)
	}
}

func TestComputeWithPercentageCode(t *testing.T) {
	items := []Item{{Qty: 4, UnitPrice: dec("25.00")}}
	code := discount.Code{Code: "WELCOME10", Kind: discount.KindPercentage, Value: dec("10")}
	sum := Compute(items, &code, dec("5.99"))
	if !sum.Discount.Equal(dec("10.00")) {
		t.Fatalf("expected discount 10.00, got %s", sum.Discount)
	}
	if !sum.Total.Equal(dec("95.99")) {
		t.Fatalf("expected total 95.99, got %s", sum.Total)
	}
}

func TestComputeNegativeShippingClamped(t *testing.T) {
	sum := Compute(nil, nil, dec("-5"))
	if !sum.ShippingCost.IsZero() {
		t.Fatalf("negative shipping should clamp to zero, got %s", sum.ShippingCost)
	}
}
