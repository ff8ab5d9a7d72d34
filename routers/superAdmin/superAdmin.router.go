package superAdminRoutes

import (
	"github.com/gofiber/fiber/v2"

	superAdminController "studio/controllers/superAdmin"
	"studio/middleware"
	"studio/models"
	superAdminValidator "studio/validators/superAdmin"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin")
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	adminGroup.Get("/enrollments", middleware.JWTMiddleware, adminOnly, superAdminValidator.ListEnrollments(), superAdminController.ListEnrollments)
	adminGroup.Get("/enrollments/:courseId/:attemptId", middleware.JWTMiddleware, adminOnly, superAdminValidator.EnrollmentDetails(), superAdminController.GetEnrollment)
}
