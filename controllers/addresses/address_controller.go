package addressController

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/models"
	"github.com/naeembaloch9099/EComerce-sub000/responses"
)

type Handler struct {
	addresses *mongo.Collection
	logger    *zap.Logger
	validate  *validator.Validate
}

func NewHandler(addresses *mongo.Collection, logger *zap.Logger) *Handler {
	return &Handler{addresses: addresses, logger: logger, validate: validator.New()}
}

type CreateAddressRequest struct {
	RecipientName string `json:"recipientName" validate:"required"`
	StreetAddress string `json:"streetAddress" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	ZipCode       string `json:"zipCode" validate:"required"`
	Phone         string `json:"phone"`
}

func (h *Handler) CreateAddress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
		})
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid User ID format",
		})
	}

	var req CreateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	address := models.Address{
		Id:            primitive.NewObjectID(),
		UserId:        userObjectID,
		RecipientName: req.RecipientName,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Phone:         req.Phone,
	}

	if _, err := h.addresses.InsertOne(c.Context(), address); err != nil {
		h.logger.Error("failed to create address", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save address",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(responses.UserResponse{
		Status:  fiber.StatusCreated,
		Message: "Address created",
		Result:  &fiber.Map{"address": address},
	})
}

func (h *Handler) GetAddresses(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
		})
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid User ID format",
		})
	}

	cursor, err := h.addresses.Find(c.Context(), bson.M{"userId": userObjectID})
	if err != nil {
		h.logger.Error("failed to fetch addresses", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch addresses",
		})
	}
	defer cursor.Close(c.Context())

	var addresses []models.Address
	if err := cursor.All(c.Context(), &addresses); err != nil {
		h.logger.Error("failed to decode addresses", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch addresses",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Addresses fetched successfully",
		Result:  &fiber.Map{"addresses": addresses},
	})
}
