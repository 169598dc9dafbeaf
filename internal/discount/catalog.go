package discount

import "github.com/shopspring/decimal"

// DefaultCatalog returns the storefront's active discount codes.
func DefaultCatalog() *Catalog {
	min150 := decimal.NewFromInt(150)
	return NewCatalog(
		Code{
			Code:        "WELCOME10",
			Kind:        KindPercentage,
			Value:       decimal.NewFromInt(10),
			Description: "10% off your order",
		},
		Code{
			Code:        "FREESHIP",
			Kind:        KindFreeShipping,
			Description: "Free standard shipping",
		},
		Code{
			Code:        "BULK25",
			Kind:        KindFixedAmount,
			Value:       decimal.NewFromInt(25),
			MinSubtotal: &min150,
			Description: "$25 off orders over $150",
		},
		Code{
			Code:        "HIVIS15",
			Kind:        KindPercentage,
			Value:       decimal.NewFromInt(15),
			Categories:  []string{"hi-vis", "safety"},
			Description: "15% off hi-vis and safety wear",
		},
		Code{
			Code:           "NEWCREW20",
			Kind:           KindPercentage,
			Value:          decimal.NewFromInt(20),
			FirstOrderOnly: true,
			Description:    "20% off your first team order",
		},
	)
}
