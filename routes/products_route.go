package routes

import (
	"github.com/gofiber/fiber/v2"

	productController "github.com/naeembaloch9099/EComerce-sub000/controllers/products"
)

func ProductsRoute(app *fiber.App, h *productController.Handler) {
	app.Get("/api/products/:id", h.GetProduct)
	app.Get("/api/products/:id/availability", h.GetAvailability)
}
