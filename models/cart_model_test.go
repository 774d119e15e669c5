package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testProduct(price float64) *Product {
	return &Product{
		ID:       primitive.NewObjectID(),
		Name:     "Canvas Sneaker",
		SKU:      "SNK-001",
		Price:    price,
		IsActive: true,
		Stock:    50,
		Images:   []string{"sneaker.jpg"},
	}
}

func TestCartAddItem(t *testing.T) {
	now := time.Now()

	t.Run("appends a new line", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		p := testProduct(29.99)

		require.NoError(t, cart.AddItem(p, Variant{Size: "M"}, 2, 10, now))
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 29.99, cart.Items[0].UnitPrice)
		assert.Equal(t, 2, cart.TotalItems)
	})

	t.Run("merges same product and variant", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		p := testProduct(29.99)

		require.NoError(t, cart.AddItem(p, Variant{Size: "M"}, 2, 10, now))
		require.NoError(t, cart.AddItem(p, Variant{Size: "M"}, 3, 10, now))
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("different variant gets its own line", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		p := testProduct(29.99)

		require.NoError(t, cart.AddItem(p, Variant{Size: "M"}, 1, 10, now))
		require.NoError(t, cart.AddItem(p, Variant{Size: "L"}, 1, 10, now))
		assert.Len(t, cart.Items, 2)
	})

	t.Run("merged quantity over cap is rejected, not truncated", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		p := testProduct(29.99)

		require.NoError(t, cart.AddItem(p, Variant{}, 8, 50, now))
		err := cart.AddItem(p, Variant{}, 3, 50, now)
		assert.ErrorIs(t, err, ErrQuantityCapExceeded)
		assert.Equal(t, 8, cart.Items[0].Quantity)
	})

	t.Run("quantity beyond stock fails", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		p := testProduct(29.99)

		err := cart.AddItem(p, Variant{}, 5, 3, now)
		assert.ErrorIs(t, err, ErrOutOfStock)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("merge refreshes the captured price", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		p := testProduct(29.99)

		require.NoError(t, cart.AddItem(p, Variant{}, 1, 10, now))
		p.Price = 24.99
		require.NoError(t, cart.AddItem(p, Variant{}, 1, 10, now))
		assert.Equal(t, 24.99, cart.Items[0].UnitPrice)
	})
}

func TestCartUpdateItemQuantity(t *testing.T) {
	now := time.Now()
	cart := NewCart(primitive.NewObjectID(), now)
	p := testProduct(10)
	require.NoError(t, cart.AddItem(p, Variant{}, 2, 10, now))
	itemID := cart.Items[0].ID

	t.Run("sets quantity", func(t *testing.T) {
		require.NoError(t, cart.UpdateItemQuantity(itemID, 4, 10, now))
		assert.Equal(t, 4, cart.Items[0].Quantity)
	})

	t.Run("beyond stock fails with InsufficientStock", func(t *testing.T) {
		err := cart.UpdateItemQuantity(itemID, 8, 5, now)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("unknown item", func(t *testing.T) {
		err := cart.UpdateItemQuantity(primitive.NewObjectID(), 1, 10, now)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		require.NoError(t, cart.UpdateItemQuantity(itemID, 0, 10, now))
		assert.True(t, cart.IsEmpty())
	})
}

func TestCartCoupon(t *testing.T) {
	now := time.Now()
	save10 := Coupon{Code: "SAVE10", Kind: DiscountPercentage, Value: 10, MinimumOrder: 50, Active: true}

	newCartWith := func(price float64, qty int) *Cart {
		cart := NewCart(primitive.NewObjectID(), now)
		require.NoError(t, cart.AddItem(testProduct(price), Variant{}, qty, 50, now))
		return cart
	}

	t.Run("SAVE10 on 29.99 x2", func(t *testing.T) {
		cart := newCartWith(29.99, 2)

		require.NoError(t, cart.ApplyCoupon(save10, now))

		s := cart.Summary()
		assert.InDelta(t, 59.98, s.Subtotal, 1e-9)
		require.NotNil(t, s.Discount)
		assert.InDelta(t, 6.00, s.Discount.Amount, 1e-9)
		assert.InDelta(t, 53.98, s.FinalTotal, 1e-9)
	})

	t.Run("minimum not met", func(t *testing.T) {
		cart := newCartWith(19.99, 2)
		err := cart.ApplyCoupon(save10, now)
		assert.ErrorIs(t, err, ErrMinimumNotMet)
		assert.Nil(t, cart.Discount)
	})

	t.Run("re-applying the same code is rejected", func(t *testing.T) {
		cart := newCartWith(29.99, 2)
		require.NoError(t, cart.ApplyCoupon(save10, now))
		err := cart.ApplyCoupon(save10, now)
		assert.ErrorIs(t, err, ErrCouponAlreadyApplied)
	})

	t.Run("remove without a coupon", func(t *testing.T) {
		cart := newCartWith(29.99, 2)
		err := cart.RemoveCoupon(now)
		assert.ErrorIs(t, err, ErrNoCouponApplied)
	})

	t.Run("clear drops the discount", func(t *testing.T) {
		cart := newCartWith(29.99, 2)
		require.NoError(t, cart.ApplyCoupon(save10, now))
		cart.Clear(now)
		assert.Nil(t, cart.Discount)
		assert.True(t, cart.IsEmpty())
	})
}

func TestCartSummaryInvariants(t *testing.T) {
	now := time.Now()

	t.Run("final total never negative", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		require.NoError(t, cart.AddItem(testProduct(10), Variant{}, 1, 10, now))
		require.NoError(t, cart.ApplyCoupon(Coupon{Code: "BIG", Kind: DiscountFixed, Value: 500, Active: true}, now))

		s := cart.Summary()
		assert.InDelta(t, 10.0, s.Discount.Amount, 1e-9)
		assert.Equal(t, 0.0, s.FinalTotal)
	})

	t.Run("discount recomputed against current items", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		require.NoError(t, cart.AddItem(testProduct(40), Variant{}, 2, 10, now))
		require.NoError(t, cart.ApplyCoupon(Coupon{Code: "TEN", Kind: DiscountPercentage, Value: 10, MinimumOrder: 50, Active: true}, now))

		// Shrink the cart after the coupon was applied; the summary must not
		// trust the stale computed amount.
		itemID := cart.Items[0].ID
		require.NoError(t, cart.UpdateItemQuantity(itemID, 1, 10, now))

		s := cart.Summary()
		assert.InDelta(t, 40.0, s.Subtotal, 1e-9)
		assert.InDelta(t, 4.0, s.Discount.Amount, 1e-9)
		assert.InDelta(t, 36.0, s.FinalTotal, 1e-9)
	})

	t.Run("summary matches stored totals after every mutation", func(t *testing.T) {
		cart := NewCart(primitive.NewObjectID(), now)
		require.NoError(t, cart.AddItem(testProduct(12.5), Variant{}, 3, 10, now))
		s := cart.Summary()
		assert.Equal(t, s.TotalItems, cart.TotalItems)
		assert.InDelta(t, s.FinalTotal, cart.TotalPrice, 1e-9)
	})
}
