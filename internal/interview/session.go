package interview

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
)

var (
	// ErrNoQuestions is returned when starting from an analysis without questions.
	ErrNoQuestions = errors.New("analysis has no interview questions")

	// ErrAlreadyStarted is returned when Start is called twice on one session.
	ErrAlreadyStarted = errors.New("interview already started")

	// ErrNotInProgress is returned for answers to a session that is not running.
	ErrNotInProgress = errors.New("interview is not in progress")

	// ErrTurnInProgress is returned while another call on the same session is pending.
	ErrTurnInProgress = errors.New("a response is already pending for this interview")

	// ErrSummaryPending is returned for new answers once completion was decided
	// but the summary call failed; FinishInterview retries it.
	ErrSummaryPending = errors.New("interview summary is pending, retry finishing the interview")

	// ErrNoPendingSummary is returned by FinishInterview when there is nothing to retry.
	ErrNoPendingSummary = errors.New("no interview summary is pending")
)

// Session is one candidate's interview over the questions of a single analysis.
// All fields are guarded by mu; callers read state through Snapshot.
type Session struct {
	mu sync.Mutex

	id             uuid.UUID
	analysisID     uuid.UUID
	jobDescription string
	questions      []models.InterviewQuestion

	status          models.SessionStatus
	currentIndex    int
	transcript      []models.InterviewTurnMessage
	summary         *models.InterviewSummary
	awaitingSummary bool
	busy            bool

	createdAt  time.Time
	lastActive time.Time
}

// NewSession creates a NotStarted session. analysisID may be uuid.Nil when the
// analysis was supplied inline rather than loaded from storage.
func NewSession(analysisID uuid.UUID, analysis models.MatchAnalysis, jobDescription string) *Session {
	now := time.Now()
	questions := make([]models.InterviewQuestion, len(analysis.InterviewQuestions))
	copy(questions, analysis.InterviewQuestions)

	return &Session{
		id:             uuid.New(),
		analysisID:     analysisID,
		jobDescription: jobDescription,
		questions:      questions,
		status:         models.SessionNotStarted,
		createdAt:      now,
		lastActive:     now,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// View is a read-only projection of a session for rendering.
type View struct {
	ID              uuid.UUID                     `json:"id"`
	AnalysisID      *uuid.UUID                    `json:"analysisId,omitempty"`
	Status          models.SessionStatus          `json:"status"`
	CurrentIndex    int                           `json:"currentIndex"`
	TotalQuestions  int                           `json:"totalQuestions"`
	CurrentQuestion *models.InterviewQuestion     `json:"currentQuestion,omitempty"`
	Transcript      []models.InterviewTurnMessage `json:"transcript"`
	Summary         *models.InterviewSummary      `json:"summary,omitempty"`
	SummaryBand     models.ScoreBand              `json:"summaryBand,omitempty"`
	AwaitingSummary bool                          `json:"awaitingSummary"`
	Pending         bool                          `json:"pending"`
	CreatedAt       time.Time                     `json:"createdAt"`
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		ID:              s.id,
		Status:          s.status,
		CurrentIndex:    s.currentIndex,
		TotalQuestions:  len(s.questions),
		Transcript:      s.transcriptLocked(),
		AwaitingSummary: s.awaitingSummary,
		Pending:         s.busy,
		CreatedAt:       s.createdAt,
	}
	if s.analysisID != uuid.Nil {
		id := s.analysisID
		v.AnalysisID = &id
	}
	if s.status == models.SessionInProgress {
		q := s.questions[s.currentIndex]
		v.CurrentQuestion = &q
	}
	if s.summary != nil {
		summary := *s.summary
		v.Summary = &summary
		v.SummaryBand = models.BandFor(summary.OverallScore)
	}
	return v
}

func (s *Session) transcriptLocked() []models.InterviewTurnMessage {
	out := make([]models.InterviewTurnMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) appendLocked(role models.Role, content string) {
	s.transcript = append(s.transcript, models.InterviewTurnMessage{Role: role, Content: content})
	s.lastActive = time.Now()
}

// transitionLocked moves status forward only: NotStarted -> InProgress -> Complete.
func (s *Session) transitionLocked(to models.SessionStatus) error {
	valid := (s.status == models.SessionNotStarted && to == models.SessionInProgress) ||
		(s.status == models.SessionInProgress && to == models.SessionComplete)
	if !valid {
		return fmt.Errorf("invalid transition: %s -> %s", s.status, to)
	}
	s.status = to
	return nil
}

func (s *Session) questionMessageLocked(index int) string {
	q := s.questions[index]
	if q.Type == "" {
		return fmt.Sprintf("Question %d of %d: %s", index+1, len(s.questions), q.Question)
	}
	return fmt.Sprintf("Question %d of %d (%s): %s", index+1, len(s.questions), q.Type, q.Question)
}
