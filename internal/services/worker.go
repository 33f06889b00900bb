package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uuid.UUID)
}

// worker embeds stored analyses into the analysis index. A poller re-enqueues
// anything still unindexed, so dropped jobs are picked up later.
type worker struct {
	analysisRepo repositories.AnalysisRepository
	embedder     Embedder
	index        AnalysisIndex
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	embedder Embedder,
	index AnalysisIndex,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		analysisRepo: analysisRepo,
		embedder:     embedder,
		index:        index,
		jobQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting indexer with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollUnindexed(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping indexer...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Indexer stopped")
	})
}

// EnqueueJob implements Worker. It never blocks the caller.
func (w *worker) EnqueueJob(analysisID uuid.UUID) {
	select {
	case w.jobQueue <- analysisID:
		log.Printf("📥 Analysis %s enqueued for indexing\n", analysisID)
	case <-w.stopChan:
		log.Printf("⚠️  Indexer stopped, cannot enqueue analysis %s\n", analysisID)
	default:
		log.Printf("⚠️  Index queue full, analysis %s left for the poller\n", analysisID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Indexer #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			return
		case analysisID := <-w.jobQueue:
			if err := w.indexAnalysis(ctx, analysisID); err != nil {
				log.Printf("❌ Indexer #%d failed on analysis %s: %v\n", workerID, analysisID, err)
			} else {
				log.Printf("✅ Indexer #%d indexed analysis %s\n", workerID, analysisID)
			}
		}
	}
}

func (w *worker) indexAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	analysis, err := w.analysisRepo.FindByID(analysisID)
	if err != nil {
		return err
	}
	if analysis.Indexed {
		return nil
	}

	embedding, err := w.embedder.Embed(ctx, analysis.JobDescription)
	if err != nil {
		return fmt.Errorf("failed to embed job description: %w", err)
	}

	if err := w.index.Upsert(ctx, analysis, embedding); err != nil {
		return err
	}

	return w.analysisRepo.MarkIndexed(analysisID)
}

func (w *worker) pollUnindexed(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Unindexed analyses poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.analysisRepo.FindUnindexed(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch unindexed analyses: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d unindexed analyses\n", len(pending))
			}

			for _, analysis := range pending {
				w.EnqueueJob(analysis.ID)
			}
		}
	}
}
