package siteRoutes

import (
	"github.com/gofiber/fiber/v2"

	siteController "studio/controllers/site"
	siteValidator "studio/validators/site"
)

func SetupSiteRoutes(app *fiber.App) {
	app.Get("/", siteController.Home)

	app.Get("/api/language", siteController.GetLanguage)
	app.Put("/api/language", siteValidator.SetLanguage(), siteController.SetLanguage)
	app.Get("/api/translations/:lang", siteController.GetTranslations)
}
