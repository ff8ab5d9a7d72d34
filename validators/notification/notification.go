package notificationValidator

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"studio/notify"
)

var validate = validator.New()

// SendAdminNotification parses the notification body. Errors use the
// endpoint's own {error} shape rather than the JSON envelope.
func SendAdminNotification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(notify.EnrollmentNotification)
		if err := c.BodyParser(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		if err := validate.Struct(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification: " + err.Error()})
		}

		c.Locals("validatedNotification", reqData)
		return c.Next()
	}
}
