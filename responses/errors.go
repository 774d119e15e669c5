package responses

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/naeembaloch9099/EComerce-sub000/models"
)

// StatusForError maps the domain error taxonomy onto HTTP status codes. All
// domain errors are recoverable 4xx; anything unrecognized is a persistence
// failure and becomes a 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrAddressNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrCartConflict):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrOutOfStock),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrQuantityCapExceeded),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidCoupon),
		errors.Is(err, models.ErrMinimumNotMet),
		errors.Is(err, models.ErrCouponAlreadyApplied),
		errors.Is(err, models.ErrNoCouponApplied),
		errors.Is(err, models.ErrIllegalTransition),
		errors.Is(err, models.ErrInvalidPaymentResult):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
