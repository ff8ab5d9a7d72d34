package siteController

import (
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"studio/enrollment"
	"studio/middleware"
	"studio/services"
	siteValidator "studio/validators/site"
)

const noticeCookie = "payment_notice"

// Home returns the page state. A request carrying processor return
// parameters finalizes the payment, stores the outcome in a one-shot cookie
// and redirects to the same URL without them, so the notice is shown on
// exactly one load.
func Home(c *fiber.Ctx) error {
	app := services.App

	u, err := url.Parse(c.OriginalURL())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid URL!", nil)
	}

	if notice, ok := enrollment.ParseReturn(u.Query()); ok {
		if _, _, err := app.Orchestrator.CompleteReturn(c.UserContext(), notice); err != nil {
			log.Printf("[ENROLLMENT] completing return for %s: %v", notice.PaymentIntentID, err)
		}

		status := "failed"
		if notice.Succeeded() {
			status = "succeeded"
		}
		c.Cookie(&fiber.Cookie{
			Name:     noticeCookie,
			Value:    status,
			Path:     "/",
			MaxAge:   300,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Redirect(enrollment.StripReturnParams(u), fiber.StatusSeeOther)
	}

	lang := app.Text.Resolve(c.Query("lang"))

	var notice fiber.Map
	if status := c.Cookies(noticeCookie); status != "" {
		c.ClearCookie(noticeCookie)
		n := enrollment.ReturnNotice{RedirectStatus: status}
		notice = fiber.Map{
			"status":    status,
			"succeeded": n.Succeeded(),
			"message":   app.Text.T(lang, n.MessageKey()),
		}
	}

	courses, err := app.Catalog.List(lang)
	if err != nil {
		log.Printf("Error building course list: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build page!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Page state fetched successfully!", fiber.Map{
		"language":  lang,
		"languages": app.Text.Languages(),
		"courses":   courses,
		"notice":    notice,
	})
}

func GetLanguage(c *fiber.Ctx) error {
	text := services.App.Text
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Language fetched successfully!", fiber.Map{
		"language":  text.Language(),
		"languages": text.Languages(),
	})
}

func SetLanguage(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLanguage").(*siteValidator.LanguageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request!", nil)
	}

	if err := services.App.Text.SetLanguage(reqData.Language); err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"language": "Unsupported language!"})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Language updated successfully!", fiber.Map{
		"language": reqData.Language,
	})
}

func GetTranslations(c *fiber.Ctx) error {
	dict, err := services.App.Text.Dictionary(c.Params("lang"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Language not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Translations fetched successfully!", dict)
}
