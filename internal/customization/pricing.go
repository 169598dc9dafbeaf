// Package customization prices garment logo customization: per-placement
// application cost, one-time setup fees and quote totals.
package customization

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Method enumerates the supported logo application methods.
type Method string

const (
	MethodPrint      Method = "print"
	MethodEmbroidery Method = "embroidery"
)

// Position enumerates the garment placement positions.
type Position string

const (
	PositionLeftChest   Position = "left_chest"
	PositionRightChest  Position = "right_chest"
	PositionLeftSleeve  Position = "left_sleeve"
	PositionRightSleeve Position = "right_sleeve"
	PositionLargeFront  Position = "large_front"
	PositionLargeBack   Position = "large_back"
)

// SetupOption enumerates the embroidery setup fee tiers.
type SetupOption string

const (
	SetupNotRequired         SetupOption = "not_required"
	SetupPreviouslyPurchased SetupOption = "previously_purchased"
	SetupProvidingFiles      SetupOption = "providing_files_dst_emb"
	SetupOneToTenItems       SetupOption = "1_to_10_items_15_fee"
	SetupTenPlusItemsFree    SetupOption = "10_plus_items_free"
)

// ErrUnknownPosition is returned when no price exists for the requested
// method and position pair.
var ErrUnknownPosition = errors.New("unknown placement position")

// placementPrices maps application method and position to the unit price.
// Embroidery runs at or above print for every position.
var placementPrices = map[Method]map[Position]decimal.Decimal{
	MethodPrint: {
		PositionLeftChest:   decimal.New(300, -2),
		PositionRightChest:  decimal.New(300, -2),
		PositionLeftSleeve:  decimal.New(250, -2),
		PositionRightSleeve: decimal.New(250, -2),
		PositionLargeFront:  decimal.New(600, -2),
		PositionLargeBack:   decimal.New(600, -2),
	},
	MethodEmbroidery: {
		PositionLeftChest:   decimal.New(450, -2),
		PositionRightChest:  decimal.New(450, -2),
		PositionLeftSleeve:  decimal.New(350, -2),
		PositionRightSleeve: decimal.New(350, -2),
		PositionLargeFront:  decimal.New(800, -2),
		PositionLargeBack:   decimal.New(800, -2),
	},
}

// embroiderySetupFees holds the explicit setup fee tiers; every other option
// defaults to zero.
var embroiderySetupFees = map[SetupOption]decimal.Decimal{
	SetupOneToTenItems:    decimal.New(1500, -2),
	SetupTenPlusItemsFree: decimal.Zero,
}

// Valid reports whether the method is one of the supported values.
func (m Method) Valid() bool {
	_, ok := placementPrices[m]
	return ok
}

// Positions returns the closed set of placement positions.
func Positions() []Position {
	return []Position{
		PositionLeftChest, PositionRightChest,
		PositionLeftSleeve, PositionRightSleeve,
		PositionLargeFront, PositionLargeBack,
	}
}

// PlacementPrice computes the cost of one placement. Left-chest placement on
// a bundle is always free; other bundle placements scale linearly with the
// number of items receiving the logo.
func PlacementPrice(position Position, method Method, isBundle bool, bundleItemCount int) (decimal.Decimal, error) {
	if isBundle && position == PositionLeftChest {
		return decimal.Zero, nil
	}
	base, ok := placementPrices[method][position]
	if !ok {
		return decimal.Zero, ErrUnknownPosition
	}
	if isBundle {
		return base.Mul(decimal.NewFromInt(int64(bundleItemCount))), nil
	}
	return base, nil
}

// SetupFee returns the one-time setup fee for the method and option. Print
// never carries a setup fee; embroidery uses the tier schedule and defaults
// to zero for unlisted options.
func SetupFee(method Method, option SetupOption) decimal.Decimal {
	if method != MethodEmbroidery {
		return decimal.Zero
	}
	if fee, ok := embroiderySetupFees[option]; ok {
		return fee
	}
	return decimal.Zero
}

// TotalCost sums the setup fee, every placement cost and the additional logo
// charge into the final customization price.
func TotalCost(setupFee decimal.Decimal, placementCosts []decimal.Decimal, additionalLogoCount int, perAdditionalLogoFee decimal.Decimal) decimal.Decimal {
	total := setupFee
	for _, cost := range placementCosts {
		total = total.Add(cost)
	}
	return total.Add(perAdditionalLogoFee.Mul(decimal.NewFromInt(int64(additionalLogoCount))))
}
