package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

type AnalyzerService interface {
	Analyze(ctx context.Context, jobDescription, resume string) (*models.Analysis, error)
}

// IndexQueue accepts analyses for background embedding.
type IndexQueue interface {
	EnqueueJob(analysisID uuid.UUID)
}

type analyzerService struct {
	completer     Completer
	analysisRepo  repositories.AnalysisRepository
	queue         IndexQueue
	promptBuilder *PromptBuilder
}

// NewAnalyzerService wires the analyze flow. analysisRepo and queue may be nil,
// in which case results are neither stored nor indexed.
func NewAnalyzerService(
	completer Completer,
	analysisRepo repositories.AnalysisRepository,
	queue IndexQueue,
) AnalyzerService {
	return &analyzerService{
		completer:     completer,
		analysisRepo:  analysisRepo,
		queue:         queue,
		promptBuilder: NewPromptBuilder(),
	}
}

func (a *analyzerService) Analyze(ctx context.Context, jobDescription, resume string) (*models.Analysis, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, NewValidationError("jobDescription", "Job description is required.")
	}
	if strings.TrimSpace(resume) == "" {
		return nil, NewValidationError("resume", "Resume is required.")
	}

	prompt := a.promptBuilder.BuildAnalysisPrompt(jobDescription, resume)
	log.Printf("🤖 Requesting match analysis (prompt %d characters)", len(prompt))

	response, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := ParseMatchAnalysis(response)
	if err != nil {
		return nil, err
	}

	analysis := models.NewAnalysis(jobDescription, resume, result)

	if a.analysisRepo != nil {
		if err := a.analysisRepo.Create(analysis); err != nil {
			log.Printf("⚠️ Failed to store analysis %s: %v", analysis.ID, err)
			return analysis, nil
		}
		if a.queue != nil {
			a.queue.EnqueueJob(analysis.ID)
		}
	}

	log.Printf("✅ Analysis %s completed (score %d, %d questions)",
		analysis.ID, analysis.MatchScore, len(analysis.InterviewQuestions))
	return analysis, nil
}
