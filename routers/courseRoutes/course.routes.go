package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "studio/controllers/course"
	validators "studio/validators/course"
)

// SetupCourseRoutes sets up the course catalog and enrollment routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	courseGroup.Get("/", controllers.ListCourses)
	courseGroup.Get("/:id", validators.CourseID(), controllers.GetCourse)

	// Enrollment flow
	courseGroup.Post("/:id/enroll", validators.EnrollCourse(), controllers.Enroll)
	courseGroup.Get("/:id/attempts/:attemptId", validators.Attempt(), controllers.GetAttempt)
	courseGroup.Delete("/:id/attempts/:attemptId", validators.Attempt(), controllers.DismissAttempt)
	courseGroup.Post("/:id/attempts/:attemptId/submit", validators.SubmitPayment(), controllers.SubmitPayment)
	courseGroup.Post("/:id/attempts/:attemptId/retry", validators.Attempt(), controllers.RetryAttempt)
}
