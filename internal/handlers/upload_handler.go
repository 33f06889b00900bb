package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	extractor      services.TextExtractor
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	extractor services.TextExtractor,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		extractor:      extractor,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload. Either or both of the "resume" and
// "job_description" fields may be sent; the extracted text is returned so the
// client can place it into an analyze request.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return services.NewValidationError("file", "failed to parse multipart form")
	}

	var responses []models.UploadResponse

	for _, fileType := range []string{models.DocumentResume, models.DocumentJobDescription} {
		files, exists := form.File[fileType]
		if !exists || len(files) == 0 {
			continue
		}

		response, err := h.processFile(c, fileType, files[0])
		if err != nil {
			return err
		}
		responses = append(responses, *response)
	}

	if len(responses) == 0 {
		return services.NewValidationError("file",
			"No valid files uploaded. Please upload 'resume' and/or 'job_description' as PDF, DOCX or TXT files.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}

func (h *UploadHandler) processFile(c *fiber.Ctx, fileType string, fh *multipart.FileHeader) (*models.UploadResponse, error) {
	if fh.Size > h.maxFileSize {
		return nil, services.NewValidationError(fileType,
			fmt.Sprintf("%s file too large. Max size: %d bytes", fileType, h.maxFileSize))
	}
	if !h.extractor.SupportedExtension(fh.Filename) {
		return nil, services.NewValidationError(fileType,
			fmt.Sprintf("%s must be a PDF, DOCX or TXT file", fileType))
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	text, err := h.extractor.ExtractText(fh.Filename, data)
	if err != nil {
		log.Printf("⚠️ Text extraction failed for %s: %v", fh.Filename, err)
		return nil, services.NewValidationError(fileType,
			fmt.Sprintf("Could not read any text from %s", fh.Filename))
	}

	filename, location, err := h.storageService.SaveFile(c.UserContext(), fileType, fh.Filename, data)
	if err != nil {
		return nil, err
	}

	doc := models.NewDocument(fileType, filename, fh.Filename, location, text)

	if err := h.docRepo.Create(doc); err != nil {
		// Cleanup uploaded file if database insert fails
		if delErr := h.storageService.DeleteFile(c.UserContext(), filename); delErr != nil {
			log.Printf("⚠️ Failed to clean up %s: %v", filename, delErr)
		}
		return nil, err
	}

	return &models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
		Text:         text,
	}, nil
}
