package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	authController "studio/controllers/auth"
	authValidator "studio/validators/auth"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/admin")
	authGroup.Post("/login", authValidator.AdminLogin(), authController.AdminLogin)
}
