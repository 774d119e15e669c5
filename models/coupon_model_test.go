package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCouponResolver(t *testing.T) {
	resolver := StaticCouponResolver{
		"SAVE10": {Code: "SAVE10", Kind: DiscountPercentage, Value: 10, MinimumOrder: 50, Active: true},
	}

	coupon, err := resolver.ResolveCoupon(context.Background(), "save10")
	require.NoError(t, err, "lookup is case-insensitive")
	assert.Equal(t, "SAVE10", coupon.Code)

	_, err = resolver.ResolveCoupon(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestCouponUsable(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, Coupon{Active: true}.Usable(now))
	assert.True(t, Coupon{Active: true, ExpiresAt: &future}.Usable(now))
	assert.False(t, Coupon{Active: true, ExpiresAt: &expired}.Usable(now))
	assert.False(t, Coupon{Active: false}.Usable(now))
}
