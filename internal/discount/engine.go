// Package discount validates storefront discount codes and computes the
// monetary effect of applying one to an order.
package discount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind enumerates the supported discount strategies.
type Kind string

const (
	// KindPercentage removes a percentage of the order subtotal.
	KindPercentage Kind = "percentage"
	// KindFixedAmount removes a fixed currency amount capped at the subtotal.
	KindFixedAmount Kind = "fixed_amount"
	// KindFreeShipping waives the shipping cost entirely.
	KindFreeShipping Kind = "free_shipping"
)

var (
	// ErrEmptyCode is returned when the submitted code is blank after trimming.
	ErrEmptyCode = errors.New("discount code is required")
	// ErrUnknownCode is returned when the code does not exist in the catalog.
	ErrUnknownCode = errors.New("unknown discount code")
	// ErrSubtotalTooLow indicates the order subtotal did not meet the code minimum.
	ErrSubtotalTooLow = errors.New("order subtotal below code minimum")
	// ErrCategoryNotEligible indicates no cart item belongs to the code's categories.
	ErrCategoryNotEligible = errors.New("cart contains no eligible categories")
	// ErrNotFirstOrder indicates the code is restricted to a customer's first order.
	ErrNotFirstOrder = errors.New("code is valid on first orders only")
)

// Code is a static catalog entry describing a single discount rule.
type Code struct {
	Code           string
	Kind           Kind
	Value          decimal.Decimal
	MinSubtotal    *decimal.Decimal
	Categories     []string
	FirstOrderOnly bool
	Description    string
}

// Application is the monetary outcome of applying a validated code.
type Application struct {
	Subtotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	ShippingDiscount decimal.Decimal
	FinalTotal       decimal.Decimal
}

// Catalog holds the compiled-in discount codes, keyed case-insensitively.
type Catalog struct {
	codes map[string]Code
}

// NewCatalog builds a catalog from the provided codes.
func NewCatalog(codes ...Code) *Catalog {
	index := make(map[string]Code, len(codes))
	for _, c := range codes {
		index[strings.ToLower(strings.TrimSpace(c.Code))] = c
	}
	return &Catalog{codes: index}
}

// Lookup returns the catalog entry for a code, matched case-insensitively.
func (c *Catalog) Lookup(code string) (Code, bool) {
	if c == nil {
		return Code{}, false
	}
	entry, ok := c.codes[strings.ToLower(strings.TrimSpace(code))]
	return entry, ok
}

// Codes returns every catalog entry.
func (c *Catalog) Codes() []Code {
	if c == nil {
		return nil
	}
	out := make([]Code, 0, len(c.codes))
	for _, entry := range c.codes {
		out = append(out, entry)
	}
	return out
}

// Validate checks a candidate code against the catalog and the order context.
// Checks run in a fixed order and the first failure wins. The catalog is never
// mutated; on success the matched entry is returned unchanged.
func (c *Catalog) Validate(code string, subtotal decimal.Decimal, cartCategories []string, isFirstOrder bool) (Code, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return Code{}, ErrEmptyCode
	}
	entry, ok := c.Lookup(trimmed)
	if !ok {
		return Code{}, ErrUnknownCode
	}
	if entry.MinSubtotal != nil && subtotal.LessThan(*entry.MinSubtotal) {
		return Code{}, fmt.Errorf("minimum subtotal of %s required: %w", entry.MinSubtotal.StringFixed(2), ErrSubtotalTooLow)
	}
	if len(entry.Categories) > 0 && !categoriesIntersect(entry.Categories, cartCategories) {
		return Code{}, ErrCategoryNotEligible
	}
	if entry.FirstOrderOnly && !isFirstOrder {
		return Code{}, ErrNotFirstOrder
	}
	return entry, nil
}

// Apply computes the discount amount, shipping waiver and final payable total
// for a validated code. The discount never exceeds the subtotal and the final
// total never goes negative.
func Apply(code Code, subtotal, shippingCost decimal.Decimal) Application {
	var amount, shippingDiscount decimal.Decimal
	switch code.Kind {
	case KindPercentage:
		amount = subtotal.Mul(code.Value).Div(decimal.NewFromInt(100))
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
	case KindFixedAmount:
		amount = code.Value
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
	case KindFreeShipping:
		shippingDiscount = shippingCost
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	total := subtotal.Sub(amount).Add(shippingCost).Sub(shippingDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Application{
		Subtotal:         subtotal,
		DiscountAmount:   amount,
		ShippingDiscount: shippingDiscount,
		FinalTotal:       total,
	}
}

func categoriesIntersect(wanted, present []string) bool {
	for _, w := range wanted {
		for _, p := range present {
			if strings.EqualFold(strings.TrimSpace(w), strings.TrimSpace(p)) {
				return true
			}
		}
	}
	return false
}
