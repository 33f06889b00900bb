package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type InterviewTurnMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Recommendation string

const (
	RecommendationHire     Recommendation = "Hire"
	RecommendationConsider Recommendation = "Consider"
	RecommendationNotReady Recommendation = "Not Ready"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationHire, RecommendationConsider, RecommendationNotReady:
		return true
	}
	return false
}

type InterviewSummary struct {
	OverallScore   int            `json:"overallScore"`
	Summary        string         `json:"summary"`
	Strengths      []string       `json:"strengths"`
	Improvements   []string       `json:"improvements"`
	Recommendation Recommendation `json:"recommendation"`
}

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionComplete   SessionStatus = "complete"
)
