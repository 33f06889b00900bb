package models

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionBehavioral  QuestionType = "Behavioral"
	QuestionTechnical   QuestionType = "Technical"
	QuestionSituational QuestionType = "Situational"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionBehavioral, QuestionTechnical, QuestionSituational:
		return true
	}
	return false
}

type InterviewQuestion struct {
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
}

// MatchAnalysis is the backend's verdict on one job description against one resume.
// Its InterviewQuestions order is the interview order.
type MatchAnalysis struct {
	MatchScore         int                 `json:"matchScore"`
	Summary            string              `json:"summary"`
	Strengths          []string            `json:"strengths"`
	MissingSkills      []string            `json:"missingSkills"`
	InterviewQuestions []InterviewQuestion `json:"interviewQuestions"`
}

type Analysis struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription     string              `gorm:"type:text;not null" json:"jobDescription"`
	Resume             string              `gorm:"type:text;not null" json:"-"`
	MatchScore         int                 `gorm:"not null" json:"matchScore"`
	Summary            string              `gorm:"type:text" json:"summary"`
	Strengths          []string            `gorm:"type:jsonb;serializer:json" json:"strengths"`
	MissingSkills      []string            `gorm:"type:jsonb;serializer:json" json:"missingSkills"`
	InterviewQuestions []InterviewQuestion `gorm:"type:jsonb;serializer:json" json:"interviewQuestions"`
	Indexed            bool                `gorm:"not null;default:false;index" json:"-"`
	CreatedAt          time.Time           `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt          time.Time           `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Analysis) TableName() string {
	return "analyses"
}

func NewAnalysis(jobDescription, resume string, result *MatchAnalysis) *Analysis {
	now := time.Now()
	return &Analysis{
		ID:                 uuid.New(),
		JobDescription:     jobDescription,
		Resume:             resume,
		MatchScore:         result.MatchScore,
		Summary:            result.Summary,
		Strengths:          result.Strengths,
		MissingSkills:      result.MissingSkills,
		InterviewQuestions: result.InterviewQuestions,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Result returns the analysis as the backend produced it.
func (a *Analysis) Result() MatchAnalysis {
	return MatchAnalysis{
		MatchScore:         a.MatchScore,
		Summary:            a.Summary,
		Strengths:          a.Strengths,
		MissingSkills:      a.MissingSkills,
		InterviewQuestions: a.InterviewQuestions,
	}
}
