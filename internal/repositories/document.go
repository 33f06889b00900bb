package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-coach/internal/models"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	// FindText returns the extracted text of an upload of the given kind
	// ("resume" or "job_description"). A document of another kind is not found.
	FindText(id uuid.UUID, fileType string) (string, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to store %s upload: %w", document.FileType, err)
	}
	return nil
}

func (d *documentRepository) FindText(id uuid.UUID, fileType string) (string, error) {
	var doc models.Document
	err := d.db.
		Select("text").
		Where("id = ? AND file_type = ?", id, fileType).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%s document %s: %w", fileType, id, ErrNotFound)
		}
		return "", fmt.Errorf("failed to load %s document: %w", fileType, err)
	}
	return doc.Text, nil
}
