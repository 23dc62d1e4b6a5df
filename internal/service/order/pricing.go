package order

import "github.com/shopspring/decimal"

type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(999),
		ShippingFee:           decimal.NewFromInt(99),
	}
}

// Shipping is free only when subtotal is strictly above the threshold.
func (p Pricing) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFee.Round(2)
}

type MissingProductPolicy string

const (
	SkipMissing MissingProductPolicy = "skip"
	FailMissing MissingProductPolicy = "fail"
)
