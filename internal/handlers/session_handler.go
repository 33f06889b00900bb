package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/interview"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

type SessionHandler struct {
	coach        *interview.Coach
	store        *interview.Store
	analysisRepo repositories.AnalysisRepository
}

func NewSessionHandler(
	coach *interview.Coach,
	store *interview.Store,
	analysisRepo repositories.AnalysisRepository,
) *SessionHandler {
	return &SessionHandler{
		coach:        coach,
		store:        store,
		analysisRepo: analysisRepo,
	}
}

// HandleCreate handles POST /sessions. The questions come either from a
// stored analysis or from an analysis supplied inline.
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	var session *interview.Session
	switch {
	case req.AnalysisID != "":
		id, err := uuid.Parse(req.AnalysisID)
		if err != nil {
			return services.NewValidationError("analysisId", "Invalid analysis ID format")
		}
		analysis, err := h.analysisRepo.FindByID(id)
		if err != nil {
			return err
		}
		session = interview.NewSession(analysis.ID, analysis.Result(), analysis.JobDescription)
	case req.Analysis != nil:
		session = interview.NewSession(uuid.Nil, *req.Analysis, req.JobDescription)
	default:
		return services.NewValidationError("analysisId", "analysisId or analysis is required")
	}

	if err := h.coach.Start(session); err != nil {
		return err
	}
	h.store.Put(session)

	return c.Status(fiber.StatusCreated).JSON(session.Snapshot())
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	session, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(session.Snapshot())
}

// HandleAnswer handles POST /sessions/:id/answers
func (h *SessionHandler) HandleAnswer(c *fiber.Ctx) error {
	session, err := h.lookup(c)
	if err != nil {
		return err
	}

	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	if err := h.coach.SubmitAnswer(c.UserContext(), session, req.Answer); err != nil {
		return err
	}

	return c.JSON(session.Snapshot())
}

// HandleSummary handles POST /sessions/:id/summary, retrying a failed summary.
func (h *SessionHandler) HandleSummary(c *fiber.Ctx) error {
	session, err := h.lookup(c)
	if err != nil {
		return err
	}

	if err := h.coach.FinishInterview(c.UserContext(), session); err != nil {
		return err
	}

	return c.JSON(session.Snapshot())
}

// HandleDelete handles DELETE /sessions/:id
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return interview.ErrSessionNotFound
	}
	if err := h.store.Delete(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) lookup(c *fiber.Ctx) (*interview.Session, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, interview.ErrSessionNotFound
	}
	return h.store.Get(id)
}
