package courseValidator

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studio/enrollment"
	"studio/middleware"
)

var attemptIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type EnrollRequest struct {
	AttemptID string `json:"attemptId"`
	Lang      string `json:"lang"`
}

type PaymentRequest struct {
	enrollment.CustomerDetails
	PaymentMethodID string `json:"paymentMethodId"`
}

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseCourseID(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(EnrollRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if reqData.Lang == "" {
			reqData.Lang = c.Query("lang")
		}

		errors := make(map[string]string)

		reqData.AttemptID = strings.TrimSpace(reqData.AttemptID)
		if reqData.AttemptID != "" && !attemptIDPattern.MatchString(reqData.AttemptID) {
			errors["attemptId"] = "Attempt ID must be 1-64 letters, digits, '-' or '_'!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

// Attempt validates the :id and :attemptId path parameters.
func Attempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, ok := parseAttemptKey(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID or Attempt ID!", nil)
		}

		c.Locals("attemptKey", key)
		return c.Next()
	}
}

func SubmitPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, ok := parseAttemptKey(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID or Attempt ID!", nil)
		}

		reqData := new(PaymentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := enrollment.ValidateCustomer(reqData.CustomerDetails); err != nil {
			if verr, ok := err.(*enrollment.ValidationError); ok {
				return middleware.ValidationErrorResponse(c, verr.Fields)
			}
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}

		c.Locals("attemptKey", key)
		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

func parseAttemptKey(c *fiber.Ctx) (enrollment.Key, bool) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return enrollment.Key{}, false
	}
	attemptID := strings.TrimSpace(c.Params("attemptId"))
	if !attemptIDPattern.MatchString(attemptID) {
		return enrollment.Key{}, false
	}
	return enrollment.Key{CourseID: courseID, AttemptID: attemptID}, true
}
