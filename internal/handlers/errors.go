package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-coach/internal/interview"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

// ErrorHandler is the single place where errors become responses. Backend and
// parse failures always surface as the generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := services.GenericFailureMessage

	var (
		validationErr *services.ValidationError
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
		message = validationErr.Message
	case errors.Is(err, interview.ErrNoQuestions):
		code = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, interview.ErrSessionNotFound):
		code = fiber.StatusNotFound
		message = "Interview session not found"
	case errors.Is(err, repositories.ErrNotFound):
		code = fiber.StatusNotFound
		message = "Analysis not found"
	case errors.Is(err, interview.ErrAlreadyStarted),
		errors.Is(err, interview.ErrNotInProgress),
		errors.Is(err, interview.ErrTurnInProgress),
		errors.Is(err, interview.ErrSummaryPending),
		errors.Is(err, interview.ErrNoPendingSummary):
		code = fiber.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrIndexDisabled):
		code = fiber.StatusServiceUnavailable
		message = err.Error()
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

func invalidPayload(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request payload",
		"code":  fiber.StatusBadRequest,
	})
}
