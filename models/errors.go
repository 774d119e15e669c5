package models

import "errors"

// Recoverable domain errors. Controllers map these to 4xx responses with
// errors.Is; anything else coming out of a service is a persistence failure
// and surfaces as a 500.
var (
	ErrOutOfStock           = errors.New("product is out of stock")
	ErrInsufficientStock    = errors.New("requested quantity exceeds available stock")
	ErrQuantityCapExceeded  = errors.New("quantity exceeds the per-item limit")
	ErrCartItemNotFound     = errors.New("item not found in cart")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCartConflict         = errors.New("cart was modified concurrently")
	ErrInvalidCoupon        = errors.New("coupon code is not valid")
	ErrMinimumNotMet        = errors.New("cart subtotal below coupon minimum")
	ErrCouponAlreadyApplied = errors.New("coupon already applied")
	ErrNoCouponApplied      = errors.New("no coupon applied to cart")
	ErrIllegalTransition    = errors.New("illegal order status transition")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotOwner             = errors.New("order does not belong to user")
	ErrProductNotFound      = errors.New("product not found")
	ErrAddressNotFound      = errors.New("address not found or doesn't belong to user")
	ErrInvalidPaymentResult = errors.New("payment result is incomplete")
	ErrExcessRestore        = errors.New("restore exceeds recorded sales")
)
