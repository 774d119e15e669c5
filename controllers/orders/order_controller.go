package orderController

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/models"
	"github.com/naeembaloch9099/EComerce-sub000/responses"
	"github.com/naeembaloch9099/EComerce-sub000/services"
)

type Handler struct {
	orders   *services.OrderService
	payments *services.PaymentService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewHandler(orders *services.OrderService, payments *services.PaymentService, logger *zap.Logger) *Handler {
	return &Handler{
		orders:   orders,
		payments: payments,
		logger:   logger,
		validate: validator.New(),
	}
}

type CreateOrderRequest struct {
	AddressID     string `json:"addressId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=razorpay cod"`
	Currency      string `json:"currency"`
}

// CreateOrder materializes the cart into an order and, for provider-backed
// payment methods, registers the order with the provider so the client can
// open its checkout widget.
func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return responses.BadRequest(c, err.Error())
	}

	addressID, err := primitive.ObjectIDFromHex(req.AddressID)
	if err != nil {
		return responses.BadRequest(c, "Invalid address ID format")
	}

	order, err := h.orders.CreateOrder(c.Context(), userID, services.CheckoutInput{
		AddressID:     addressID,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to create order")
	}

	result := fiber.Map{
		"order":       order,
		"orderKey":    order.OrderKey,
		"orderNumber": order.OrderNumber,
	}

	if order.PaymentMethod == models.PaymentMethodRazorpay {
		providerOrderID, err := h.payments.CreateProviderOrder(c.Context(), order, req.Currency)
		if err != nil {
			// The order stands; payment can be retried against it.
			h.logger.Error("failed to create provider order",
				zap.String("order_key", order.OrderKey),
				zap.Error(err))
		} else {
			result["razorpayId"] = providerOrderID
			result["key_id"] = h.payments.KeyID()
		}
	}

	return c.Status(fiber.StatusCreated).JSON(responses.UserResponse{
		Status:  fiber.StatusCreated,
		Message: "Order created successfully",
		Result:  &result,
	})
}

func (h *Handler) GetOrders(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil {
		limit = 10
	}
	status := models.OrderStatus(c.Query("status", ""))

	orders, total, err := h.orders.ListOrders(c.Context(), userID, status, page, limit)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to fetch orders")
	}

	totalPages := (total + limit - 1) / limit
	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Orders fetched successfully",
		Result: &fiber.Map{
			"orders":      orders,
			"currentPage": page,
			"totalPages":  totalPages,
			"totalOrders": total,
		},
	})
}

func (h *Handler) GetOrderById(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	orderID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.BadRequest(c, "Invalid order ID format")
	}

	order, err := h.orders.GetOrder(c.Context(), userID, orderID)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to fetch order")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order fetched successfully",
		Result:  &fiber.Map{"order": order},
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

// UpdateStatus is the admin-gated state-machine endpoint.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.BadRequest(c, "Invalid order ID format")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return responses.BadRequest(c, err.Error())
	}

	actor, _ := c.Locals("userId").(string)
	order, err := h.orders.UpdateStatus(c.Context(), orderID, models.OrderStatus(req.Status), req.Note, actor)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to update order status")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order status updated",
		Result:  &fiber.Map{"order": order},
	})
}

type CancelRequest struct {
	Note string `json:"note"`
}

// Cancel is self-service: owner only, cancellable states only.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	orderID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.BadRequest(c, "Invalid order ID format")
	}

	var req CancelRequest
	_ = c.BodyParser(&req)

	order, err := h.orders.Cancel(c.Context(), userID, orderID, req.Note)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to cancel order")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order cancelled",
		Result:  &fiber.Map{"order": order},
	})
}

type PayRequest struct {
	PaymentID  string  `json:"paymentId" validate:"required"`
	Signature  string  `json:"signature" validate:"required"`
	RazorpayID string  `json:"razorpayId" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Currency   string  `json:"currency" validate:"required,len=3"`
}

// Pay handles the redirect callback: verify the provider signature, normalize
// the result, and hand it to the reconciler. Replays are no-op successes.
func (h *Handler) Pay(c *fiber.Ctx) error {
	userID, err := responses.UserObjectID(c)
	if err != nil {
		return responses.Unauthorized(c)
	}

	orderID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.BadRequest(c, "Invalid order ID format")
	}

	var req PayRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return responses.BadRequest(c, err.Error())
	}

	// Ownership check before touching payment state.
	order, err := h.orders.GetOrder(c.Context(), userID, orderID)
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to fetch order")
	}

	if !h.payments.VerifySignature(req.RazorpayID, req.PaymentID, req.Signature) {
		return responses.BadRequest(c, "Invalid payment signature")
	}
	if !amountMatchesTotal(req.Amount, order.Total) {
		return responses.BadRequest(c, "Payment amount does not match order total")
	}

	order, err = h.payments.MarkPaid(c.Context(), orderID, models.PaymentResult{
		ID:                    req.RazorpayID,
		Status:                "captured",
		Amount:                req.Amount,
		Currency:              req.Currency,
		Method:                string(models.PaymentMethodRazorpay),
		ProviderTransactionID: req.PaymentID,
	})
	if err != nil {
		return responses.Fail(c, h.logger, err, "Failed to record payment")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Payment verified successfully",
		Result: &fiber.Map{
			"orderId":   order.ID.Hex(),
			"isPaid":    order.IsPaid,
			"paidAt":    order.PaidAt,
			"status":    order.Status,
			"paymentId": req.PaymentID,
		},
	})
}

// amountMatchesTotal compares a reported payment amount against the order
// total at currency precision.
func amountMatchesTotal(amount, total float64) bool {
	return models.RoundCurrency(amount) == models.RoundCurrency(total)
}
