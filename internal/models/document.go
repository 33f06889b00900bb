package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentResume         = "resume"
	DocumentJobDescription = "job_description"
)

// Document is an uploaded resume or job description. The original file lives
// in storage at Location; Text is what the analyzer reads.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FileType         string    `gorm:"type:varchar(32);not null;index" json:"file_type"`
	Filename         string    `gorm:"type:text;not null" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	Location         string    `gorm:"type:text" json:"location"`
	Text             string    `gorm:"type:text;not null" json:"-"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

func NewDocument(fileType, filename, originalName, location, text string) *Document {
	now := time.Now()
	return &Document{
		ID:               uuid.New(),
		FileType:         fileType,
		Filename:         filename,
		OriginalFileName: originalName,
		Location:         location,
		Text:             text,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
