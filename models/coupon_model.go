package models

import (
	"context"
	"strings"
	"time"
)

// Coupon is a discount rule looked up by code at apply time.
type Coupon struct {
	Code         string       `bson:"code" json:"code" validate:"required"`
	Kind         DiscountKind `bson:"kind" json:"kind" validate:"required,oneof=percentage fixed"`
	Value        float64      `bson:"value" json:"value" validate:"required,gt=0"`
	MinimumOrder float64      `bson:"minimumOrder" json:"minimumOrder"`
	Active       bool         `bson:"active" json:"active"`
	ExpiresAt    *time.Time   `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// Usable reports whether the coupon can still be applied at the given time.
func (c Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	return c.ExpiresAt == nil || now.Before(*c.ExpiresAt)
}

// CouponResolver looks up coupon definitions so discount rules stay data, not
// code. Implementations return ErrInvalidCoupon for unknown codes.
type CouponResolver interface {
	ResolveCoupon(ctx context.Context, code string) (Coupon, error)
}

// StaticCouponResolver resolves from a fixed in-memory table, keyed by
// upper-cased code.
type StaticCouponResolver map[string]Coupon

func (r StaticCouponResolver) ResolveCoupon(_ context.Context, code string) (Coupon, error) {
	c, ok := r[strings.ToUpper(code)]
	if !ok {
		return Coupon{}, ErrInvalidCoupon
	}
	return c, nil
}
