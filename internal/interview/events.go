package interview

import (
	"log"
	"time"

	"alfredoptarigan/interview-coach/internal/services"
)

const EventInterviewCompleted = "interview.completed"

// CompletedEvent builds the payload announced when a session finishes.
func CompletedEvent(v View) map[string]any {
	event := map[string]any{
		"type":        EventInterviewCompleted,
		"sessionId":   v.ID.String(),
		"completedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if v.AnalysisID != nil {
		event["analysisId"] = v.AnalysisID.String()
	}
	if v.Summary != nil {
		event["overallScore"] = v.Summary.OverallScore
		event["recommendation"] = string(v.Summary.Recommendation)
	}
	return event
}

// WithEventPublisher publishes CompletedEvent for every finished session.
// Publish failures are logged and never fail the interview.
func WithEventPublisher(pub services.EventPublisher) Option {
	return WithCompletionHook(func(v View) {
		if err := pub.PublishSessionUpdate(v.ID.String(), CompletedEvent(v)); err != nil {
			log.Printf("⚠️ Failed to publish completion of interview %s: %v", v.ID, err)
		}
	})
}
