package responses

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/models"
)

func TestFailStatusMapping(t *testing.T) {
	app := fiber.New()
	logger := zap.NewNop()
	app.Get("/domain", func(c *fiber.Ctx) error {
		return Fail(c, logger, models.ErrOrderNotFound, "Failed to fetch order")
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return Fail(c, logger, errors.New("connection reset"), "Failed to fetch order")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/domain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/internal", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestUserObjectID(t *testing.T) {
	app := fiber.New()
	id := primitive.NewObjectID()
	app.Get("/ok", func(c *fiber.Ctx) error {
		c.Locals("userId", id.Hex())
		got, err := UserObjectID(c)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		if _, err := UserObjectID(c); err != nil {
			return Unauthorized(c)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
