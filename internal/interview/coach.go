package interview

import (
	"context"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

const closingMessage = "That concludes the interview. Thank you for your answers, your performance summary is ready."

// Coach drives sessions through the interview using the completion backend.
// It holds no session state itself.
type Coach struct {
	completer  services.Completer
	prompts    *services.PromptBuilder
	onComplete func(View)
}

type Option func(*Coach)

// WithCompletionHook registers fn to run after a session reaches Complete.
func WithCompletionHook(fn func(View)) Option {
	return func(c *Coach) {
		c.onComplete = fn
	}
}

func NewCoach(completer services.Completer, opts ...Option) *Coach {
	c := &Coach{
		completer: completer,
		prompts:   services.NewPromptBuilder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start moves a NotStarted session to InProgress and presents the first question.
func (c *Coach) Start(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionNotStarted {
		return ErrAlreadyStarted
	}
	if len(s.questions) == 0 {
		return ErrNoQuestions
	}
	if err := s.transitionLocked(models.SessionInProgress); err != nil {
		return err
	}

	s.currentIndex = 0
	s.appendLocked(models.RoleAssistant, fmt.Sprintf(
		"Let's begin your mock interview. There are %d questions.\n\n%s",
		len(s.questions), s.questionMessageLocked(0),
	))

	log.Printf("🎤 Interview %s started with %d questions", s.id, len(s.questions))
	return nil
}

// SubmitAnswer records the candidate's answer, asks the backend for feedback
// and then either presents the next question or finishes the interview.
//
// On a backend or parse failure the answer stays in the transcript, no
// assistant reply is added, and the status is unchanged.
func (c *Coach) SubmitAnswer(ctx context.Context, s *Session, answer string) error {
	answer = strings.TrimSpace(answer)

	s.mu.Lock()
	switch {
	case s.status != models.SessionInProgress:
		s.mu.Unlock()
		return ErrNotInProgress
	case s.busy:
		s.mu.Unlock()
		return ErrTurnInProgress
	case s.awaitingSummary:
		s.mu.Unlock()
		return ErrSummaryPending
	case answer == "":
		s.mu.Unlock()
		return services.NewValidationError("answer", "Answer is required.")
	}

	s.appendLocked(models.RoleUser, answer)
	s.busy = true
	index := s.currentIndex
	question := s.questions[index].Question
	prompt := c.prompts.BuildInterviewTurnPrompt(s.transcriptLocked(), s.jobDescription, question, false)
	s.mu.Unlock()

	defer s.release()

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		log.Printf("❌ Interview %s feedback failed on question %d: %v", s.id, index+1, err)
		return err
	}
	reply := services.SplitTurnReply(raw)

	s.mu.Lock()
	if reply.Feedback != "" {
		s.appendLocked(models.RoleAssistant, reply.Feedback)
	}

	// The local index decides; the backend directive can only end early.
	if index < len(s.questions)-1 && !reply.Complete() {
		s.currentIndex++
		s.appendLocked(models.RoleAssistant, s.questionMessageLocked(s.currentIndex))
		s.mu.Unlock()
		return nil
	}

	s.awaitingSummary = true
	s.mu.Unlock()

	if index < len(s.questions)-1 {
		log.Printf("⚠️ Interview %s ended early by backend directive at question %d", s.id, index+1)
	}
	return c.summarize(ctx, s)
}

// FinishInterview retries the summary call after it failed in SubmitAnswer.
func (c *Coach) FinishInterview(ctx context.Context, s *Session) error {
	s.mu.Lock()
	switch {
	case s.status != models.SessionInProgress:
		s.mu.Unlock()
		return ErrNotInProgress
	case s.busy:
		s.mu.Unlock()
		return ErrTurnInProgress
	case !s.awaitingSummary:
		s.mu.Unlock()
		return ErrNoPendingSummary
	}
	s.busy = true
	s.mu.Unlock()

	defer s.release()
	return c.summarize(ctx, s)
}

func (c *Coach) summarize(ctx context.Context, s *Session) error {
	s.mu.Lock()
	prompt := c.prompts.BuildInterviewTurnPrompt(s.transcriptLocked(), s.jobDescription, "", true)
	s.mu.Unlock()

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		log.Printf("❌ Interview %s summary failed: %v", s.id, err)
		return err
	}

	summary, err := services.ParseInterviewSummary(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.transitionLocked(models.SessionComplete); err != nil {
		s.mu.Unlock()
		return err
	}
	s.summary = summary
	s.awaitingSummary = false
	s.appendLocked(models.RoleAssistant, closingMessage)
	view := s.viewLocked()
	s.mu.Unlock()

	log.Printf("✅ Interview %s complete (score %d, %s)", s.id, summary.OverallScore, summary.Recommendation)
	if c.onComplete != nil {
		c.onComplete(view)
	}
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
