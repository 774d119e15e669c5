package models

import "github.com/shopspring/decimal"

// DiscountKind distinguishes percentage coupons from fixed-amount ones.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Shipping tiers by total item quantity, applied below the free-shipping
// threshold.
const (
	shippingBaseRate = 4.99  // 1-2 items
	shippingMidRate  = 7.99  // 3-5 items
	shippingHighRate = 12.99 // 6+ items
)

// RoundCurrency rounds to the smallest currency unit, half up. Every stored
// monetary field goes through this at the point of computation so totals are
// never compared as raw floats.
func RoundCurrency(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// ApplyDiscount computes the discount amount for a subtotal, clamped to
// [0, subtotal]. A discount can never push a total negative.
func ApplyDiscount(subtotal float64, kind DiscountKind, value float64) float64 {
	var amount float64
	switch kind {
	case DiscountPercentage:
		amount = subtotal * value / 100
	case DiscountFixed:
		amount = value
	}

	amount = RoundCurrency(amount)
	if amount < 0 {
		return 0
	}
	if amount > subtotal {
		return RoundCurrency(subtotal)
	}
	return amount
}

// TaxAmount applies a flat rate to the taxable amount.
func TaxAmount(taxable, rate float64) float64 {
	if taxable <= 0 || rate <= 0 {
		return 0
	}
	return RoundCurrency(taxable * rate)
}

// ShippingCost is free at or above the threshold, otherwise tiered by item
// count. The threshold check uses the subtotal before any discount.
func ShippingCost(subtotal float64, totalItems int, freeThreshold float64) float64 {
	if totalItems <= 0 {
		return 0
	}
	if freeThreshold > 0 && subtotal >= freeThreshold {
		return 0
	}
	switch {
	case totalItems <= 2:
		return shippingBaseRate
	case totalItems <= 5:
		return shippingMidRate
	default:
		return shippingHighRate
	}
}
