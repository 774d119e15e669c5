package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact", 53.98, 53.98},
		{"half rounds up", 5.995, 6.00},
		{"below half rounds down", 5.994, 5.99},
		{"tenth of a percent", 59.98 * 0.1, 6.00},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundCurrency(tt.in), 1e-9)
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		assert.InDelta(t, 6.00, ApplyDiscount(59.98, DiscountPercentage, 10), 1e-9)
	})

	t.Run("fixed", func(t *testing.T) {
		assert.InDelta(t, 15.00, ApplyDiscount(100, DiscountFixed, 15), 1e-9)
	})

	t.Run("fixed larger than subtotal clamps to subtotal", func(t *testing.T) {
		assert.InDelta(t, 20.00, ApplyDiscount(20, DiscountFixed, 50), 1e-9)
	})

	t.Run("never negative", func(t *testing.T) {
		assert.Equal(t, 0.0, ApplyDiscount(50, DiscountFixed, -10))
	})
}

func TestShippingCost(t *testing.T) {
	const threshold = 100.0

	tests := []struct {
		name     string
		subtotal float64
		items    int
		want     float64
	}{
		{"empty cart ships nothing", 0, 0, 0},
		{"free at threshold", 100, 3, 0},
		{"free above threshold", 250, 8, 0},
		{"base tier", 30, 2, 4.99},
		{"mid tier", 60, 4, 7.99},
		{"high tier", 80, 6, 12.99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ShippingCost(tt.subtotal, tt.items, threshold), 1e-9)
		})
	}
}

func TestTaxAmount(t *testing.T) {
	assert.InDelta(t, 4.32, TaxAmount(53.98, 0.08), 1e-9)
	assert.Equal(t, 0.0, TaxAmount(0, 0.08))
	assert.Equal(t, 0.0, TaxAmount(100, 0))
}
