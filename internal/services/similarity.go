package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
)

// ErrIndexDisabled is returned when no vector store is configured.
var ErrIndexDisabled = errors.New("analysis index is not configured")

type SimilarityService interface {
	FindSimilar(ctx context.Context, analysisID uuid.UUID, limit int) ([]models.SimilarAnalysis, error)
}

type similarityService struct {
	analysisRepo repositories.AnalysisRepository
	embedder     Embedder
	index        AnalysisIndex
}

// NewSimilarityService returns a service answering ErrIndexDisabled when index is nil.
func NewSimilarityService(analysisRepo repositories.AnalysisRepository, embedder Embedder, index AnalysisIndex) SimilarityService {
	return &similarityService{
		analysisRepo: analysisRepo,
		embedder:     embedder,
		index:        index,
	}
}

func (s *similarityService) FindSimilar(ctx context.Context, analysisID uuid.UUID, limit int) ([]models.SimilarAnalysis, error) {
	if s.index == nil {
		return nil, ErrIndexDisabled
	}
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	analysis, err := s.analysisRepo.FindByID(analysisID)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embedder.Embed(ctx, analysis.JobDescription)
	if err != nil {
		return nil, err
	}

	return s.index.SearchSimilar(ctx, embedding, analysisID.String(), limit)
}
