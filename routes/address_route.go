package routes

import (
	"github.com/gofiber/fiber/v2"

	addressController "github.com/naeembaloch9099/EComerce-sub000/controllers/addresses"
)

func AddressRoutes(app *fiber.App, h *addressController.Handler, auth fiber.Handler) {
	app.Post("/api/addresses", auth, h.CreateAddress)
	app.Get("/api/addresses", auth, h.GetAddresses)
}
