package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

type AnalyzeHandler struct {
	analyzer     services.AnalyzerService
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	similarity   services.SimilarityService
}

func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	similarity services.SimilarityService,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:     analyzer,
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		similarity:   similarity,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	jobDescription, err := h.resolveText(req.JobDescription, req.JobDescriptionDocumentID, models.DocumentJobDescription)
	if err != nil {
		return err
	}
	resume, err := h.resolveText(req.Resume, req.ResumeDocumentID, models.DocumentResume)
	if err != nil {
		return err
	}

	analysis, err := h.analyzer.Analyze(c.UserContext(), jobDescription, resume)
	if err != nil {
		return err
	}

	return c.JSON(models.NewAnalyzeResponse(analysis))
}

// resolveText returns inline text, or the text of the referenced upload when
// inline text is blank.
func (h *AnalyzeHandler) resolveText(inline, documentID, fileType string) (string, error) {
	if strings.TrimSpace(inline) != "" || documentID == "" {
		return inline, nil
	}

	id, err := uuid.Parse(documentID)
	if err != nil {
		return "", services.NewValidationError(fileType, "Invalid document ID format")
	}

	text, err := h.docRepo.FindText(id, fileType)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", services.NewValidationError(fileType, "Uploaded document not found")
	}
	return text, err
}

// HandleGetAnalysis handles GET /analyses/:id
func (h *AnalyzeHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return services.NewValidationError("id", "Invalid analysis ID format")
	}

	analysis, err := h.analysisRepo.FindByID(id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"analysis":       models.NewAnalyzeResponse(analysis),
		"jobDescription": analysis.JobDescription,
		"createdAt":      analysis.CreatedAt,
	})
}

// HandleSimilar handles GET /analyses/:id/similar
func (h *AnalyzeHandler) HandleSimilar(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return services.NewValidationError("id", "Invalid analysis ID format")
	}

	similar, err := h.similarity.FindSimilar(c.UserContext(), id, c.QueryInt("limit", 5))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"analysisId": id,
		"similar":    similar,
	})
}
