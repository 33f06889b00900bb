package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Analyze   *AnalyzeHandler
	Interview *InterviewHandler
	Session   *SessionHandler
	Upload    *UploadHandler
	Job       *JobHandler
}

// RegisterRoutes mounts every endpoint under api, normally the /api/v1 group.
func RegisterRoutes(api fiber.Router, h Handlers) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", h.Upload.HandleUpload)
	api.Post("/job-descriptions/fetch", h.Job.HandleFetch)

	api.Post("/analyze", h.Analyze.HandleAnalyze)
	api.Get("/analyses/:id", h.Analyze.HandleGetAnalysis)
	api.Get("/analyses/:id/similar", h.Analyze.HandleSimilar)

	api.Post("/interview", h.Interview.HandleInterviewTurn)

	sessions := api.Group("/sessions")
	sessions.Post("/", h.Session.HandleCreate)
	sessions.Get("/:id", h.Session.HandleGet)
	sessions.Post("/:id/answers", h.Session.HandleAnswer)
	sessions.Post("/:id/summary", h.Session.HandleSummary)
	sessions.Delete("/:id", h.Session.HandleDelete)
}
