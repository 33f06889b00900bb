package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

type JobHandler struct {
	fetcher services.JobFetcher
}

func NewJobHandler(fetcher services.JobFetcher) *JobHandler {
	return &JobHandler{fetcher: fetcher}
}

// HandleFetch handles POST /job-descriptions/fetch
func (h *JobHandler) HandleFetch(c *fiber.Ctx) error {
	var req models.FetchJobRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		return services.NewValidationError("url", "url is required")
	}

	posting, err := h.fetcher.Fetch(c.UserContext(), url)
	if err != nil {
		return err
	}

	return c.JSON(posting)
}
