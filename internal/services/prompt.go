package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-coach/internal/models"
)

const (
	NextMarker        = "NEXT:"
	CompleteDirective = "INTERVIEW_COMPLETE"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the match-analysis prompt. Both inputs are embedded verbatim.
func (pb *PromptBuilder) BuildAnalysisPrompt(jobDescription, resume string) string {
	return fmt.Sprintf(`You are a senior technical recruiter and interview coach.

Analyze the following resume against the job description and return a JSON response with this exact structure:
{
  "matchScore": <number between 0 and 100>,
  "summary": "<2-3 sentence overall assessment>",
  "strengths": ["<strength 1>", "<strength 2>", "<strength 3>"],
  "missingSkills": ["<missing skill 1>", "<missing skill 2>"],
  "interviewQuestions": [
    { "question": "<question 1>", "type": "<Behavioral | Technical | Situational>" },
    { "question": "<question 2>", "type": "<Behavioral | Technical | Situational>" },
    { "question": "<question 3>", "type": "<Behavioral | Technical | Situational>" },
    { "question": "<question 4>", "type": "<Behavioral | Technical | Situational>" },
    { "question": "<question 5>", "type": "<Behavioral | Technical | Situational>" }
  ]
}

Only return the JSON. No extra text, no markdown, no code blocks.

JOB DESCRIPTION:
%s

RESUME:
%s`, jobDescription, resume)
}

// BuildInterviewTurnPrompt creates either the per-answer feedback prompt or, when
// isComplete is set, the final summary prompt over the whole transcript.
// The feedback branch expects the last transcript entry to be the candidate's answer.
func (pb *PromptBuilder) BuildInterviewTurnPrompt(transcript []models.InterviewTurnMessage, jobDescription, currentQuestion string, isComplete bool) string {
	if isComplete {
		return pb.buildSummaryPrompt(transcript, jobDescription)
	}

	var answer string
	if len(transcript) > 0 {
		answer = transcript[len(transcript)-1].Content
	}

	return fmt.Sprintf(`You are conducting a professional job interview.

Job Description:
%s

Current Question Asked:
%s

Candidate's Answer:
%s

Give brief, constructive feedback on their answer in 2-3 sentences. Be encouraging but honest.
Then on a new line write "%s" followed by either the next question from the list or "%s" if there are no more questions.

Keep your tone professional and supportive.`,
		jobDescription, currentQuestion, answer, NextMarker, CompleteDirective)
}

func (pb *PromptBuilder) buildSummaryPrompt(transcript []models.InterviewTurnMessage, jobDescription string) string {
	return fmt.Sprintf(`You are a senior interviewer. Based on this interview conversation, provide a final performance summary.

Job Description:
%s

Interview Conversation:
%s

Return a JSON object with this exact structure:
{
  "overallScore": <number between 0 and 100>,
  "summary": "<2-3 sentence overall assessment>",
  "strengths": ["<strength 1>", "<strength 2>", "<strength 3>"],
  "improvements": ["<area 1>", "<area 2>"],
  "recommendation": "<Hire | Consider | Not Ready>"
}

Only return the JSON. No extra text, no markdown, no code blocks.`,
		jobDescription, FormatTranscript(transcript))
}

// FormatTranscript renders turns as alternating "Candidate:" / "Interviewer:" lines.
func FormatTranscript(transcript []models.InterviewTurnMessage) string {
	lines := make([]string, 0, len(transcript))
	for _, m := range transcript {
		speaker := "Interviewer"
		if m.Role == models.RoleUser {
			speaker = "Candidate"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, m.Content))
	}
	return strings.Join(lines, "\n")
}
