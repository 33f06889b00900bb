package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/handlers"
	"alfredoptarigan/interview-coach/internal/interview"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	log.Printf("✅ Storage initialized (%s)", cfg.Storage.Driver)

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		EmbedModel:      cfg.Gemini.EmbedModel,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize the analysis index when Qdrant is configured
	var (
		index  services.AnalysisIndex
		worker services.Worker
		queue  services.IndexQueue
	)
	if cfg.Qdrant.URL != "" {
		index, err = services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := index.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}

		worker = services.NewWorker(analysisRepo, geminiService, index, cfg.Worker.Concurrency, cfg.Worker.PollInterval)
		worker.Start(ctx)
		queue = worker
		log.Println("✅ Analysis index and worker started")
	} else {
		log.Println("⚠️ QDRANT_URL not set, similar-analysis search disabled")
	}

	// Initialize event publisher
	publisher := services.NewLogPublisher()
	if cfg.Broker.URL != "" {
		publisher, err = services.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			log.Fatalf("❌ Failed to connect to RabbitMQ: %v", err)
		}
		log.Printf("✅ Publishing session updates to exchange %s", cfg.Broker.Exchange)
	}

	// Initialize services
	analyzer := services.NewAnalyzerService(geminiService, analysisRepo, queue)
	similarity := services.NewSimilarityService(analysisRepo, geminiService, index)
	coach := interview.NewCoach(geminiService, interview.WithEventPublisher(publisher))

	store := interview.NewStore(cfg.Session.TTL)
	store.StartSweeper(ctx, cfg.Session.SweepInterval)
	log.Println("✅ Services initialized successfully")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Interview Coach API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 2,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.RegisterRoutes(app.Group("/api/v1"), handlers.Handlers{
		Analyze:   handlers.NewAnalyzeHandler(analyzer, analysisRepo, docRepo, similarity),
		Interview: handlers.NewInterviewHandler(geminiService),
		Session:   handlers.NewSessionHandler(coach, store, analysisRepo),
		Upload:    handlers.NewUploadHandler(docRepo, storageService, services.NewTextExtractor(), cfg.Storage.MaxFileSize),
		Job:       handlers.NewJobHandler(services.NewJobFetcher(nil)),
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Coach API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/job-descriptions/fetch",
				"POST /api/v1/analyze",
				"GET /api/v1/analyses/:id",
				"GET /api/v1/analyses/:id/similar",
				"POST /api/v1/interview",
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"POST /api/v1/sessions/:id/answers",
				"POST /api/v1/sessions/:id/summary",
				"DELETE /api/v1/sessions/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if worker != nil {
			worker.Stop()
		}
		store.Stop()
		if err := publisher.Close(); err != nil {
			log.Printf("⚠️ Failed to close publisher: %v", err)
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		cancel()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (services.StorageService, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return services.NewS3Storage(ctx, services.S3Options{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
		})
	case "local", "":
		return services.NewLocalStorage(cfg.Storage.UploadPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
