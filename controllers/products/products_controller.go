package productController

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/models"
	"github.com/naeembaloch9099/EComerce-sub000/responses"
	"github.com/naeembaloch9099/EComerce-sub000/services"
)

type Handler struct {
	products *mongo.Collection
	stock    services.StockLedger
	logger   *zap.Logger
}

func NewHandler(products *mongo.Collection, stock services.StockLedger, logger *zap.Logger) *Handler {
	return &Handler{products: products, stock: stock, logger: logger}
}

func (h *Handler) GetProduct(c *fiber.Ctx) error {
	productID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product Id",
		})
	}

	var product models.Product
	if err := h.products.FindOne(c.Context(), bson.M{"_id": productID}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Product not found",
			})
		}
		h.logger.Error("failed to fetch product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching product details",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Product fetched successfully",
		Result:  &fiber.Map{"product": product},
	})
}

// GetAvailability answers "can I buy qty of this size/color right now".
func (h *Handler) GetAvailability(c *fiber.Ctx) error {
	productID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product Id",
		})
	}

	qty, err := strconv.Atoi(c.Query("quantity", "1"))
	if err != nil || qty < 1 {
		qty = 1
	}
	variant := models.Variant{
		Size:  c.Query("size", ""),
		Color: c.Query("color", ""),
	}

	available, err := h.stock.CheckAvailable(c.Context(), productID, variant, qty)
	if err != nil {
		status := responses.StatusForError(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("stock check failed", zap.Error(err))
		}
		return c.Status(status).JSON(responses.UserResponse{
			Status:  status,
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Availability checked",
		Result: &fiber.Map{
			"productId": productID.Hex(),
			"quantity":  qty,
			"available": available,
		},
	})
}
