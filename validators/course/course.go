package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studio/middleware"
)

func parseCourseID(c *fiber.Ctx) (uint, bool) {
	courseID, err := strconv.ParseUint(strings.TrimSpace(c.Params("id")), 10, 32)
	if err != nil || courseID == 0 {
		return 0, false
	}
	return uint(courseID), true
}

// CourseID validates the :id path parameter.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseCourseID(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
