package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeIndex struct {
	upserted  []uuid.UUID
	excluded  string
	limit     int
	neighbors []models.SimilarAnalysis
}

func (f *fakeIndex) InitCollection(ctx context.Context) error { return nil }

func (f *fakeIndex) Upsert(ctx context.Context, analysis *models.Analysis, embedding []float32) error {
	f.upserted = append(f.upserted, analysis.ID)
	return nil
}

func (f *fakeIndex) SearchSimilar(ctx context.Context, embedding []float32, excludeID string, limit int) ([]models.SimilarAnalysis, error) {
	f.excluded = excludeID
	f.limit = limit
	return f.neighbors, nil
}

type indexingRepo struct {
	memoryAnalysisRepo
	marked []uuid.UUID
}

func (r *indexingRepo) MarkIndexed(id uuid.UUID) error {
	r.marked = append(r.marked, id)
	return nil
}

func storedAnalysis(repo *indexingRepo) *models.Analysis {
	a := models.NewAnalysis("Go engineer", "resume", &models.MatchAnalysis{MatchScore: 50, Summary: "ok"})
	_ = repo.Create(a)
	return a
}

func TestIndexAnalysisEmbedsUpsertsAndMarks(t *testing.T) {
	repo := &indexingRepo{}
	index := &fakeIndex{}
	w := NewWorker(repo, &fakeEmbedder{}, index, 1, 0).(*worker)
	a := storedAnalysis(repo)

	if err := w.indexAnalysis(context.Background(), a.ID); err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(index.upserted) != 1 || index.upserted[0] != a.ID {
		t.Fatalf("upserted = %v", index.upserted)
	}
	if len(repo.marked) != 1 || repo.marked[0] != a.ID {
		t.Fatalf("marked = %v", repo.marked)
	}
}

func TestIndexAnalysisSkipsIndexedAndStopsOnEmbedFailure(t *testing.T) {
	repo := &indexingRepo{}
	index := &fakeIndex{}
	embedder := &fakeEmbedder{}
	w := NewWorker(repo, embedder, index, 1, 0).(*worker)

	done := storedAnalysis(repo)
	done.Indexed = true
	if err := w.indexAnalysis(context.Background(), done.ID); err != nil {
		t.Fatalf("index: %v", err)
	}
	if embedder.calls != 0 {
		t.Fatal("already indexed analysis was embedded again")
	}

	embedder.err = errors.New("quota")
	pending := storedAnalysis(repo)
	if err := w.indexAnalysis(context.Background(), pending.ID); err == nil {
		t.Fatal("expected embed failure")
	}
	if len(index.upserted) != 0 || len(repo.marked) != 0 {
		t.Fatal("failed analysis was indexed")
	}
}

func TestEnqueueJobDoesNotBlockWhenFull(t *testing.T) {
	w := NewWorker(&indexingRepo{}, &fakeEmbedder{}, &fakeIndex{}, 1, 0).(*worker)
	for i := 0; i < cap(w.jobQueue)+5; i++ {
		w.EnqueueJob(uuid.New())
	}
	if len(w.jobQueue) != cap(w.jobQueue) {
		t.Fatalf("queue len = %d, want %d", len(w.jobQueue), cap(w.jobQueue))
	}
}

func TestFindSimilar(t *testing.T) {
	repo := &indexingRepo{}
	a := storedAnalysis(repo)

	disabled := NewSimilarityService(repo, &fakeEmbedder{}, nil)
	if _, err := disabled.FindSimilar(context.Background(), a.ID, 5); !errors.Is(err, ErrIndexDisabled) {
		t.Fatalf("error = %v, want ErrIndexDisabled", err)
	}

	index := &fakeIndex{neighbors: []models.SimilarAnalysis{{AnalysisID: uuid.NewString(), Score: 0.9}}}
	svc := NewSimilarityService(repo, &fakeEmbedder{}, index)

	got, err := svc.FindSimilar(context.Background(), a.ID, 0)
	if err != nil {
		t.Fatalf("find similar: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	if index.excluded != a.ID.String() || index.limit != 5 {
		t.Fatalf("search called with exclude=%q limit=%d", index.excluded, index.limit)
	}
}
