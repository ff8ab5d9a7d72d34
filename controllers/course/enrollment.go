package courseController

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"studio/catalog"
	"studio/enrollment"
	"studio/gateway"
	"studio/middleware"
	"studio/models"
	"studio/services"
	courseValidator "studio/validators/course"
)

// AttemptResponse is the client view of an enrollment attempt.
type AttemptResponse struct {
	CourseID       uint                       `json:"courseId"`
	AttemptID      string                     `json:"attemptId"`
	State          enrollment.State           `json:"state"`
	Course         models.Course              `json:"course"`
	Mode           gateway.Mode               `json:"mode,omitempty"`
	MockMode       bool                       `json:"mockMode"`
	PublishableKey string                     `json:"publishableKey,omitempty"`
	IntentID       string                     `json:"intentId,omitempty"`
	ClientSecret   string                     `json:"clientSecret,omitempty"`
	Amount         int64                      `json:"amount,omitempty"`
	Currency       string                     `json:"currency,omitempty"`
	Customer       enrollment.CustomerDetails `json:"customer"`
	Error          string                     `json:"error,omitempty"`
	Notified       bool                       `json:"notified"`
	RedirectURL    string                     `json:"redirectUrl,omitempty"`
	UpdatedAt      time.Time                  `json:"updatedAt"`
}

func attemptResponse(a enrollment.Attempt) AttemptResponse {
	resp := AttemptResponse{
		CourseID:    a.CourseID,
		AttemptID:   a.AttemptID,
		State:       a.State,
		Course:      a.Course,
		Mode:        a.Mode(),
		MockMode:    services.App.Gateway.Mode() == gateway.ModeMock,
		IntentID:    a.Intent.ID,
		Amount:      a.Intent.Amount,
		Currency:    a.Intent.Currency,
		Customer:    a.Customer,
		Error:       a.Error,
		Notified:    a.Notified,
		RedirectURL: a.RedirectURL,
		UpdatedAt:   a.UpdatedAt,
	}
	if !a.State.Terminal() {
		resp.ClientSecret = a.Intent.ClientSecret
	}
	if !resp.MockMode {
		resp.PublishableKey = services.App.Config.Payment.PublishableKey
	}
	return resp
}

func Enroll(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEnroll").(*courseValidator.EnrollRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request!", nil)
	}
	courseID, _ := c.Locals("courseID").(uint)

	app := services.App
	lang := app.Text.Resolve(reqData.Lang)

	a, err := app.Orchestrator.Enroll(c.UserContext(), courseID, lang, reqData.AttemptID)
	switch {
	case errors.Is(err, catalog.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, enrollment.ErrAttemptDiscarded):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment was cancelled!", nil)
	case err != nil && a.AttemptID != "":
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, a.Error, attemptResponse(a))
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, app.Text.T(lang, "paymentError"), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment intent created successfully!", attemptResponse(a))
}

func GetAttempt(c *fiber.Ctx) error {
	key, _ := c.Locals("attemptKey").(enrollment.Key)

	a, err := services.App.Orchestrator.Get(key)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment attempt not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment attempt fetched successfully!", attemptResponse(a))
}

func SubmitPayment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPayment").(*courseValidator.PaymentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request!", nil)
	}
	key, _ := c.Locals("attemptKey").(enrollment.Key)

	app := services.App
	a, err := app.Orchestrator.Submit(c.UserContext(), key, reqData.CustomerDetails, reqData.PaymentMethodID)

	var verr *enrollment.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.ValidationErrorResponse(c, verr.Fields)
	case errors.Is(err, enrollment.ErrAttemptNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment attempt not found!", nil)
	case errors.Is(err, enrollment.ErrAlreadyProcessing):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment is already being processed!", attemptResponse(a))
	case errors.Is(err, enrollment.ErrInvalidTransition):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment cannot be submitted in the current state!", attemptResponse(a))
	case errors.Is(err, enrollment.ErrAttemptDiscarded):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment was cancelled!", nil)
	case errors.Is(err, enrollment.ErrUnexpected):
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, a.Error, attemptResponse(a))
	}

	switch a.State {
	case enrollment.StateSucceeded:
		return middleware.JsonResponse(c, fiber.StatusOK, true, app.Text.T(a.Lang, "paymentSucceeded"), attemptResponse(a))
	case enrollment.StateProcessing:
		return middleware.JsonResponse(c, fiber.StatusAccepted, true, "Additional authentication required.", attemptResponse(a))
	default:
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, a.Error, attemptResponse(a))
	}
}

func RetryAttempt(c *fiber.Ctx) error {
	key, _ := c.Locals("attemptKey").(enrollment.Key)

	app := services.App
	a, err := app.Orchestrator.Retry(c.UserContext(), key, c.Query("lang"))
	switch {
	case errors.Is(err, enrollment.ErrAttemptNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment attempt not found!", nil)
	case errors.Is(err, enrollment.ErrInvalidTransition):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only a failed enrollment can be retried!", nil)
	case err != nil && a.AttemptID != "":
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, a.Error, attemptResponse(a))
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to retry enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment intent created successfully!", attemptResponse(a))
}

func DismissAttempt(c *fiber.Ctx) error {
	key, _ := c.Locals("attemptKey").(enrollment.Key)

	if err := services.App.Orchestrator.Dismiss(c.UserContext(), key); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment attempt not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment dismissed.", nil)
}
