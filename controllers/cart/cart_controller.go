package cartController

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/models"
	"github.com/naeembaloch9099/EComerce-sub000/responses"
	"github.com/naeembaloch9099/EComerce-sub000/services"
)

type Handler struct {
	carts    *services.CartService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewHandler(carts *services.CartService, logger *zap.Logger) *Handler {
	return &Handler{
		carts:    carts,
		logger:   logger,
		validate: validator.New(),
	}
}

type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=10"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func (h *Handler) AddItem(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return responses.BadRequest(c, err.Error())
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return responses.BadRequest(c, "Invalid product Id")
	}

	cart, err := h.carts.AddItem(c.Context(), userID, productID, models.Variant{Size: req.Size, Color: req.Color}, req.Quantity)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to add item to cart")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Successfully added to cart",
		Result:  &fiber.Map{"cart": cart, "summary": cart.Summary()},
	})
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=10"`
}

func (h *Handler) UpdateItem(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	itemID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.BadRequest(c, "Invalid item Id")
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return responses.BadRequest(c, err.Error())
	}

	cart, err := h.carts.UpdateItemQuantity(c.Context(), userID, itemID, req.Quantity)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to update cart item")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Cart item updated",
		Result:  &fiber.Map{"cart": cart, "summary": cart.Summary()},
	})
}

func (h *Handler) RemoveItem(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	itemID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.BadRequest(c, "Invalid item Id")
	}

	cart, err := h.carts.RemoveItem(c.Context(), userID, itemID)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to remove item from cart")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Successfully removed from cart",
		Result:  &fiber.Map{"cart": cart, "summary": cart.Summary()},
	})
}

func (h *Handler) ClearCart(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	cart, err := h.carts.ClearCart(c.Context(), userID)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to clear cart")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Cart cleared",
		Result:  &fiber.Map{"cart": cart},
	})
}

type CouponRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *Handler) ApplyCoupon(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	var req CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return responses.BadRequest(c, err.Error())
	}

	cart, err := h.carts.ApplyCoupon(c.Context(), userID, req.Code)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to apply coupon")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Coupon applied",
		Result:  &fiber.Map{"cart": cart, "summary": cart.Summary()},
	})
}

func (h *Handler) RemoveCoupon(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	cart, err := h.carts.RemoveCoupon(c.Context(), userID)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to remove coupon")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Coupon removed",
		Result:  &fiber.Map{"cart": cart, "summary": cart.Summary()},
	})
}

func (h *Handler) GetCart(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	cart, err := h.carts.GetCart(c.Context(), userID)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to fetch cart")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Successfully fetched cart",
		Result:  &fiber.Map{"cart": cart},
	})
}

func (h *Handler) GetSummary(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	summary, err := h.carts.Summary(c.Context(), userID)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to compute cart summary")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Successfully calculated cart totals",
		Result:  &fiber.Map{"summary": summary},
	})
}
