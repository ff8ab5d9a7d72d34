package siteValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"studio/middleware"
	"studio/services"
)

type LanguageRequest struct {
	Language string `json:"language"`
}

func SetLanguage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LanguageRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Language = strings.ToLower(strings.TrimSpace(reqData.Language))
		if reqData.Language == "" {
			errors["language"] = "Language is required!"
		} else if !services.App.Text.Has(reqData.Language) {
			errors["language"] = "Unsupported language!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLanguage", reqData)
		return c.Next()
	}
}
