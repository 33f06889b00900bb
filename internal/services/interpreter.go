package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/interview-coach/internal/models"
)

const maxLoggedRaw = 500

// TurnReply is a feedback response split on the NEXT: marker.
// Directive is advisory; the local question list decides what comes next.
type TurnReply struct {
	Feedback     string
	Directive    string
	HasDirective bool
}

// Complete reports whether the backend asked to end the interview.
func (r TurnReply) Complete() bool {
	return r.HasDirective && r.Directive == CompleteDirective
}

// SplitTurnReply splits raw on the first NEXT: marker. Without a marker the
// whole text is feedback.
func SplitTurnReply(raw string) TurnReply {
	before, after, found := strings.Cut(raw, NextMarker)
	if !found {
		return TurnReply{Feedback: strings.TrimSpace(raw)}
	}
	return TurnReply{
		Feedback:     strings.TrimSpace(before),
		Directive:    strings.TrimSpace(after),
		HasDirective: true,
	}
}

type rawMatchAnalysis struct {
	MatchScore         *int                        `json:"matchScore"`
	Summary            *string                     `json:"summary"`
	Strengths          []string                    `json:"strengths"`
	MissingSkills      []string                    `json:"missingSkills"`
	InterviewQuestions *[]models.InterviewQuestion `json:"interviewQuestions"`
}

// ParseMatchAnalysis parses the whole response as a MatchAnalysis. Prose or
// markdown fencing around the JSON is a failure.
func ParseMatchAnalysis(raw string) (*models.MatchAnalysis, error) {
	var r rawMatchAnalysis
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, malformed("analysis", raw, err)
	}

	switch {
	case r.MatchScore == nil:
		return nil, malformed("analysis", raw, errors.New("missing matchScore"))
	case *r.MatchScore < 0 || *r.MatchScore > 100:
		return nil, malformed("analysis", raw, fmt.Errorf("matchScore %d out of range", *r.MatchScore))
	case r.Summary == nil:
		return nil, malformed("analysis", raw, errors.New("missing summary"))
	case r.InterviewQuestions == nil:
		return nil, malformed("analysis", raw, errors.New("missing interviewQuestions"))
	}
	for i, q := range *r.InterviewQuestions {
		if !q.Type.Valid() {
			return nil, malformed("analysis", raw, fmt.Errorf("question %d has unknown type %q", i+1, q.Type))
		}
	}

	result := &models.MatchAnalysis{
		MatchScore:         *r.MatchScore,
		Summary:            *r.Summary,
		Strengths:          r.Strengths,
		MissingSkills:      r.MissingSkills,
		InterviewQuestions: *r.InterviewQuestions,
	}
	if result.Strengths == nil {
		result.Strengths = []string{}
	}
	if result.MissingSkills == nil {
		result.MissingSkills = []string{}
	}

	return result, nil
}

type rawInterviewSummary struct {
	OverallScore   *int                   `json:"overallScore"`
	Summary        *string                `json:"summary"`
	Strengths      []string               `json:"strengths"`
	Improvements   []string               `json:"improvements"`
	Recommendation *models.Recommendation `json:"recommendation"`
}

// ParseInterviewSummary parses the whole response as an InterviewSummary.
func ParseInterviewSummary(raw string) (*models.InterviewSummary, error) {
	var r rawInterviewSummary
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, malformed("summary", raw, err)
	}

	switch {
	case r.OverallScore == nil:
		return nil, malformed("summary", raw, errors.New("missing overallScore"))
	case *r.OverallScore < 0 || *r.OverallScore > 100:
		return nil, malformed("summary", raw, fmt.Errorf("overallScore %d out of range", *r.OverallScore))
	case r.Summary == nil:
		return nil, malformed("summary", raw, errors.New("missing summary"))
	case r.Recommendation == nil:
		return nil, malformed("summary", raw, errors.New("missing recommendation"))
	case !r.Recommendation.Valid():
		return nil, malformed("summary", raw, fmt.Errorf("unknown recommendation %q", *r.Recommendation))
	}

	summary := &models.InterviewSummary{
		OverallScore:   *r.OverallScore,
		Summary:        *r.Summary,
		Strengths:      r.Strengths,
		Improvements:   r.Improvements,
		Recommendation: *r.Recommendation,
	}
	if summary.Strengths == nil {
		summary.Strengths = []string{}
	}
	if summary.Improvements == nil {
		summary.Improvements = []string{}
	}

	return summary, nil
}

func malformed(kind, raw string, err error) error {
	preview := raw
	if len(preview) > maxLoggedRaw {
		preview = preview[:maxLoggedRaw] + "..."
	}
	log.Printf("❌ Malformed %s response (%v): %q", kind, err, preview)

	return &MalformedResponseError{Kind: kind, Raw: raw, Err: err}
}
