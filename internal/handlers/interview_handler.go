package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

// InterviewHandler serves the stateless interview turn: the client sends the
// whole transcript every time and gets the raw backend text back.
type InterviewHandler struct {
	completer services.Completer
	prompts   *services.PromptBuilder
}

func NewInterviewHandler(completer services.Completer) *InterviewHandler {
	return &InterviewHandler{
		completer: completer,
		prompts:   services.NewPromptBuilder(),
	}
}

// HandleInterviewTurn handles POST /interview
func (h *InterviewHandler) HandleInterviewTurn(c *fiber.Ctx) error {
	var req models.InterviewTurnRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	turns := req.Turns()
	if len(turns) == 0 {
		return services.NewValidationError("transcript", "Transcript is required.")
	}
	if !req.IsComplete && turns[len(turns)-1].Role != models.RoleUser {
		return services.NewValidationError("transcript", "The transcript must end with the candidate's answer.")
	}

	prompt := h.prompts.BuildInterviewTurnPrompt(turns, req.JobDescription, req.CurrentQuestion, req.IsComplete)

	response, err := h.completer.Complete(c.UserContext(), prompt)
	if err != nil {
		return err
	}

	return c.JSON(models.InterviewTurnResponse{Response: response})
}
