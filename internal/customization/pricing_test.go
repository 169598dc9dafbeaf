package customization

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBundleLeftChestAlwaysFree(t *testing.T) {
	for _, method := range []Method{MethodPrint, MethodEmbroidery} {
		for _, count := range []int{1, 6, 100} {
			price, err := PlacementPrice(PositionLeftChest, method, true, count)
			if err != nil {
				t.Fatalf("%s bundle of %d: %v", method, count, err)
			}
			if !price.IsZero() {
				t.Fatalf("%s bundle left chest should be free, got %s", method, price)
			}
		}
	}
}

func TestBundlePlacementScalesLinearly(t *testing.T) {
	// Embroidery bundle of 6, large back at 8.00 each.
	price, err := PlacementPrice(PositionLargeBack, MethodEmbroidery, true, 6)
	if err != nil {
		t.Fatalf("placement price: %v", err)
	}
	if !price.Equal(dec("48.00")) {
		t.Fatalf("expected 48.00, got %s", price)
	}

	single, err := PlacementPrice(PositionLargeBack, MethodEmbroidery, true, 1)
	if err != nil {
		t.Fatalf("placement price: %v", err)
	}
	if !price.Equal(single.Mul(decimal.NewFromInt(6))) {
		t.Fatalf("bundle pricing is not linear: %s vs 6*%s", price, single)
	}
}

func TestNonBundlePlacementIgnoresItemCount(t *testing.T) {
	a, err := PlacementPrice(PositionRightChest, MethodEmbroidery, false, 1)
	if err != nil {
		t.Fatalf("placement price: %v", err)
	}
	b, err := PlacementPrice(PositionRightChest, MethodEmbroidery, false, 50)
	if err != nil {
		t.Fatalf("placement price: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("non-bundle price must not scale: %s vs %s", a, b)
	}
}

func TestEmbroideryAtLeastPrint(t *testing.T) {
	for _, pos := range Positions() {
		printPrice, err := PlacementPrice(pos, MethodPrint, false, 1)
		if err != nil {
			t.Fatalf("print %s: %v", pos, err)
		}
		embroidery, err := PlacementPrice(pos, MethodEmbroidery, false, 1)
		if err != nil {
			t.Fatalf("embroidery %s: %v", pos, err)
		}
		if embroidery.LessThan(printPrice) {
			t.Fatalf("embroidery %s priced below print: %s < %s", pos, embroidery, printPrice)
		}
	}
}

func TestUnknownPosition(t *testing.T) {
	if _, err := PlacementPrice(Position("collar"), MethodPrint, false, 1); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}
}

func TestSetupFee(t *testing.T) {
	if fee := SetupFee(MethodEmbroidery, SetupOneToTenItems); !fee.Equal(dec("15.00")) {
		t.Fatalf("expected 15.00 setup fee, got %s", fee)
	}
	if fee := SetupFee(MethodEmbroidery, SetupTenPlusItemsFree); !fee.IsZero() {
		t.Fatalf("10+ items tier should be free, got %s", fee)
	}
	for _, opt := range []SetupOption{SetupNotRequired, SetupPreviouslyPurchased, SetupProvidingFiles} {
		if fee := SetupFee(MethodEmbroidery, opt); !fee.IsZero() {
			t.Fatalf("option %s should carry no fee, got %s", opt, fee)
		}
	}
	// Print never has a setup fee, whatever the option says.
	if fee := SetupFee(MethodPrint, SetupOneToTenItems); !fee.IsZero() {
		t.Fatalf("print setup fee should be zero, got %s", fee)
	}
}

func TestTotalCost(t *testing.T) {
	total := TotalCost(dec("15.00"), []decimal.Decimal{dec("0"), dec("48.00")}, 2, dec("2.50"))
	if !total.Equal(dec("68.00")) {
		t.Fatalf("expected 68.00, got %s", total)
	}
}

func TestTotalCostEmpty(t *testing.T) {
	if total := TotalCost(decimal.Zero, nil, 0, decimal.Zero); !total.IsZero() {
		t.Fatalf("expected zero, got %s", total)
	}
}
