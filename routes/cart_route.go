package routes

import (
	"github.com/gofiber/fiber/v2"

	cartController "github.com/naeembaloch9099/EComerce-sub000/controllers/cart"
)

func CartRoutes(app *fiber.App, h *cartController.Handler, auth fiber.Handler) {
	app.Get("/api/cart", auth, h.GetCart)
	app.Get("/api/cart/summary", auth, h.GetSummary)
	app.Post("/api/cart/items", auth, h.AddItem)
	app.Put("/api/cart/items/:id", auth, h.UpdateItem)
	app.Delete("/api/cart/items/:id", auth, h.RemoveItem)
	app.Delete("/api/cart", auth, h.ClearCart)
	app.Post("/api/cart/coupon", auth, h.ApplyCoupon)
	app.Delete("/api/cart/coupon", auth, h.RemoveCoupon)
}
