package superAdminValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studio/enrollment"
	"studio/middleware"
)

type EnrollmentListRequest struct {
	State string `query:"state"`
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
}

var knownStates = map[enrollment.State]bool{
	enrollment.StateInitial:         true,
	enrollment.StateCreatingIntent:  true,
	enrollment.StateAwaitingPayment: true,
	enrollment.StateProcessing:      true,
	enrollment.StateSucceeded:       true,
	enrollment.StateFailed:          true,
}

func ListEnrollments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &EnrollmentListRequest{Page: 1, Limit: 20}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		reqData.State = strings.TrimSpace(reqData.State)
		if reqData.State != "" && !knownStates[enrollment.State(reqData.State)] {
			errors["state"] = "Unknown enrollment state!"
		}

		if reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		if reqData.Limit < 1 || reqData.Limit > 100 {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollmentList", reqData)
		return c.Next()
	}
}

func EnrollmentDetails() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.ParseUint(strings.TrimSpace(c.Params("courseId")), 10, 32)
		if err != nil || courseID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		attemptID := strings.TrimSpace(c.Params("attemptId"))
		if attemptID == "" || len(attemptID) > 64 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Attempt ID!", nil)
		}

		c.Locals("attemptKey", enrollment.Key{CourseID: uint(courseID), AttemptID: attemptID})
		return c.Next()
	}
}
