package paymentRoutes

import (
	"github.com/gofiber/fiber/v2"

	paymentController "studio/controllers/payment"
)

func SetupPaymentRoutes(app *fiber.App) {
	app.Get("/api/config", paymentController.GetConfig)
	app.Get("/api/payment-intents/:id", paymentController.GetPaymentIntent)

	// Registered for every method so non-POST requests get 405 from the handler.
	app.All("/api/checkout_sessions", paymentController.CreateCheckoutSession)
}
