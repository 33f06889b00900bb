package main

import (
	"context"
	"log"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

// Backfills the analysis index with every stored analysis not yet embedded.
func main() {
	log.Println("🚀 Starting analysis reindex...")

	cfg := config.Load()
	if cfg.Qdrant.URL == "" {
		log.Fatal("❌ QDRANT_URL is required to reindex analyses")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	analysisRepo := repositories.NewAnalysisRepository(db)

	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := index.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	indexed, failed := 0, 0
	for {
		pending, err := analysisRepo.FindUnindexed(50)
		if err != nil {
			log.Fatalf("❌ Failed to list unindexed analyses: %v", err)
		}
		if len(pending) == 0 {
			break
		}

		progress := false
		for i := range pending {
			analysis := &pending[i]
			log.Printf("📄 Indexing analysis %s (score %d)", analysis.ID, analysis.MatchScore)

			embedding, err := geminiService.Embed(ctx, analysis.JobDescription)
			if err != nil {
				log.Printf("  ⚠️ Failed to embed: %v", err)
				failed++
				continue
			}
			if err := index.Upsert(ctx, analysis, embedding); err != nil {
				log.Printf("  ⚠️ Failed to upsert: %v", err)
				failed++
				continue
			}
			if err := analysisRepo.MarkIndexed(analysis.ID); err != nil {
				log.Printf("  ⚠️ Failed to mark indexed: %v", err)
				failed++
				continue
			}
			indexed++
			progress = true
		}

		// Every remaining analysis failed; stop rather than retry forever.
		if !progress {
			break
		}
	}

	log.Printf("🎉 Reindex completed: %d indexed, %d failed", indexed, failed)
}
