package notificationRoutes

import (
	"github.com/gofiber/fiber/v2"

	notificationController "studio/controllers/notification"
	notificationValidator "studio/validators/notification"
)

func SetupNotificationRoutes(app *fiber.App) {
	app.Post("/api/send-admin-notification", notificationValidator.SendAdminNotification(), notificationController.SendAdminNotification)
}
