package routes

import (
	"github.com/gofiber/fiber/v2"

	orderController "github.com/naeembaloch9099/EComerce-sub000/controllers/orders"
	"github.com/naeembaloch9099/EComerce-sub000/middlewares"
)

func OrderRoutes(app *fiber.App, h *orderController.Handler, auth fiber.Handler) {
	app.Post("/api/orders", auth, h.CreateOrder)
	app.Get("/api/orders", auth, h.GetOrders)
	app.Get("/api/orders/:id", auth, h.GetOrderById)
	app.Put("/api/orders/:id/status", auth, middlewares.AdminOnly, h.UpdateStatus)
	app.Put("/api/orders/:id/cancel", auth, h.Cancel)
	app.Put("/api/orders/:id/pay", auth, h.Pay)
}
