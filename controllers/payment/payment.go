package paymentController

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studio/gateway"
	"studio/middleware"
	"studio/services"
)

// GetConfig returns the client-visible payment configuration.
func GetConfig(c *fiber.Ctx) error {
	app := services.App
	mode := app.Gateway.Mode()

	data := fiber.Map{
		"mode":     mode,
		"mockMode": mode == gateway.ModeMock,
		"currency": app.Catalog.Currency(),
	}
	if mode == gateway.ModeLive {
		data["publishableKey"] = app.Config.Payment.PublishableKey
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment configuration fetched successfully!", data)
}

// CreateCheckoutSession starts a hosted checkout and redirects the browser
// to it. Only POST is accepted.
func CreateCheckoutSession(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return c.Status(fiber.StatusMethodNotAllowed).SendString("Method Not Allowed")
	}

	app := services.App
	origin := strings.TrimRight(c.Get(fiber.HeaderOrigin), "/")
	if origin == "" {
		origin = strings.TrimRight(app.Config.PublicURL, "/")
	}

	url, err := app.Gateway.CreateCheckoutSession(c.UserContext(), gateway.CheckoutRequest{
		PriceID: app.Config.StripePriceID,
		Origin:  origin,
	})
	if err != nil || url == "" {
		log.Printf("[GATEWAY] checkout session failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Session URL is null")
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

func GetPaymentIntent(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment intent ID is required!", nil)
	}

	intent, err := services.App.Gateway.RetrieveIntent(c.UserContext(), id)
	if err != nil {
		if msg, ok := gateway.ProcessorMessage(err); ok {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, msg, nil)
		}
		log.Printf("[GATEWAY] retrieve %s failed: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to fetch payment intent!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment intent fetched successfully!", intent)
}
