package responses

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Fail renders a domain error using StatusForError. Unrecognized errors are
// logged with the fallback message and the detail is withheld from the client.
func Fail(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	status := StatusForError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err))
		message = fallback
	}
	return c.Status(status).JSON(UserResponse{
		Status:  status,
		Message: message,
	})
}

// UserObjectID extracts the authenticated user's id set by the auth middleware.
func UserObjectID(c *fiber.Ctx) (primitive.ObjectID, error) {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return primitive.NilObjectID, fiber.ErrUnauthorized
	}
	return primitive.ObjectIDFromHex(userId)
}

func Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(UserResponse{
		Status:  fiber.StatusUnauthorized,
		Message: "User ID not found in token",
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(UserResponse{
		Status:  fiber.StatusBadRequest,
		Message: message,
	})
}
