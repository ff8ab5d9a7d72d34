package notificationController

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"studio/config"
	"studio/notify"
	"studio/services"
)

// SendAdminNotification dispatches one admin email through the local mail
// backend. The response shape is shared with the remote dispatcher.
func SendAdminNotification(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedNotification").(*notify.EnrollmentNotification)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	notifier := services.App.LocalNotifier
	if err := notifier.Notify(c.UserContext(), *reqData); err != nil {
		log.Printf("[NOTIFY] Error sending email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send email"})
	}

	if notifier.Backend() == config.MailDev {
		return c.JSON(fiber.Map{
			"success":         true,
			"message":         "Email notification skipped (development mode)",
			"developmentMode": true,
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
