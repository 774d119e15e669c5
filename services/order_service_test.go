package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naeembaloch9099/EComerce-sub000/models"
)

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2025, time.September, 1, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "ORD2509010001", FormatOrderNumber(day, 1))
	assert.Equal(t, "ORD2509010042", FormatOrderNumber(day, 42))
	assert.Equal(t, "ORD2509011234", FormatOrderNumber(day, 1234))

	nextDay := day.AddDate(0, 0, 1)
	assert.Equal(t, "ORD2509020001", FormatOrderNumber(nextDay, 1),
		"sequence resets with the date prefix")
}

func TestFormatOrderNumberDistinctSequences(t *testing.T) {
	day := time.Now()
	seen := make(map[string]bool)
	for seq := 1; seq <= 500; seq++ {
		n := FormatOrderNumber(day, seq)
		require.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}

func TestMaterializeLine(t *testing.T) {
	line := models.CartItem{
		Name:      "Canvas Sneaker",
		Variant:   models.Variant{Size: "M"},
		UnitPrice: 29.99,
		Quantity:  2,
		Image:     "cart-sneaker.jpg",
	}

	t.Run("resolved product snapshots current catalog values", func(t *testing.T) {
		product := &models.Product{
			Name:            "Canvas Sneaker",
			SKU:             "SNK-001",
			Price:           34.99,
			DiscountedPrice: 27.99,
			Images:          []string{"catalog-sneaker.jpg"},
		}

		item := materializeLine(line, product)
		assert.True(t, item.Resolved())
		assert.Equal(t, 27.99, item.UnitPrice, "current discounted price, not the cart capture")
		assert.Equal(t, "SNK-001", item.SKU)
		assert.Equal(t, "catalog-sneaker.jpg", item.Image)
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("vanished product falls back to the cart capture", func(t *testing.T) {
		item := materializeLine(line, nil)
		assert.False(t, item.Resolved())
		assert.Equal(t, 29.99, item.UnitPrice)
		assert.Equal(t, "Canvas Sneaker", item.Name)
		assert.Equal(t, "cart-sneaker.jpg", item.Image)
	})
}

func orderWithItems(items ...models.OrderItem) *models.Order {
	return &models.Order{Items: items}
}

func TestApplyTotals(t *testing.T) {
	policy := OrderPolicy{TaxRate: 0.08, FreeShippingThreshold: 100}

	t.Run("worked example", func(t *testing.T) {
		order := orderWithItems(
			models.NewCustomOrderItem("Sneaker", 29.99, 2, models.Variant{}, ""),
		)
		discount := &models.Discount{Code: "SAVE10", Kind: models.DiscountPercentage, Value: 10}

		applyTotals(order, discount, policy)

		assert.InDelta(t, 59.98, order.Subtotal, 1e-9)
		assert.InDelta(t, 6.00, order.Discount, 1e-9)
		assert.InDelta(t, 4.99, order.Shipping, 1e-9, "two items below the free threshold")
		assert.InDelta(t, 4.32, order.Tax, 1e-9, "8% of the discounted 53.98")
		assert.InDelta(t, 59.98+4.32+4.99-6.00, order.Total, 1e-9)
	})

	t.Run("free shipping uses subtotal before discount", func(t *testing.T) {
		order := orderWithItems(
			models.NewCustomOrderItem("Jacket", 55, 2, models.Variant{}, ""),
		)
		discount := &models.Discount{Code: "HALF", Kind: models.DiscountFixed, Value: 60}

		applyTotals(order, discount, policy)

		// Post-discount 50 is below the threshold, but the check is pre-discount.
		assert.InDelta(t, 110.0, order.Subtotal, 1e-9)
		assert.Equal(t, 0.0, order.Shipping)
	})

	t.Run("oversized fixed discount cannot push total negative", func(t *testing.T) {
		order := orderWithItems(
			models.NewCustomOrderItem("Socks", 5, 1, models.Variant{}, ""),
		)
		discount := &models.Discount{Code: "MEGA", Kind: models.DiscountFixed, Value: 500}

		applyTotals(order, discount, OrderPolicy{})

		assert.InDelta(t, 5.0, order.Discount, 1e-9, "clamped to subtotal")
		assert.GreaterOrEqual(t, order.Total, 0.0)
	})

	t.Run("no discount", func(t *testing.T) {
		order := orderWithItems(
			models.NewCustomOrderItem("Hat", 20, 1, models.Variant{}, ""),
		)
		applyTotals(order, nil, policy)

		assert.InDelta(t, 20.0, order.Subtotal, 1e-9)
		assert.Equal(t, 0.0, order.Discount)
		assert.InDelta(t, 20.0+models.TaxAmount(20, 0.08)+4.99, order.Total, 1e-9)
	})
}
