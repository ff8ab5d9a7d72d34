package superAdminController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"studio/database"
	"studio/enrollment"
	"studio/middleware"
	"studio/services"
	superAdminValidator "studio/validators/superAdmin"
)

// ListEnrollments returns persisted enrollment attempts, newest first.
func ListEnrollments(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEnrollmentList").(*superAdminValidator.EnrollmentListRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request!", nil)
	}

	recorder := services.App.Recorder
	if recorder == nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Enrollment history is not available!", nil)
	}

	rows, total, err := recorder.ListAttempts(c.UserContext(), reqData.State, reqData.Page, reqData.Limit)
	if err != nil {
		log.Printf("Error listing enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": rows,
		"total":       total,
		"page":        reqData.Page,
		"limit":       reqData.Limit,
	})
}

func GetEnrollment(c *fiber.Ctx) error {
	key, _ := c.Locals("attemptKey").(enrollment.Key)

	recorder := services.App.Recorder
	if recorder == nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Enrollment history is not available!", nil)
	}

	row, logs, err := recorder.FindAttempt(c.UserContext(), key.CourseID, key.AttemptID)
	if errors.Is(err, database.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}
	if err != nil {
		log.Printf("Error fetching enrollment %s: %v", key, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", fiber.Map{
		"enrollment":    row,
		"notifications": logs,
	})
}
