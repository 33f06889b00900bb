package models

import "github.com/google/uuid"

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	Text         string `json:"text"`
}

// AnalyzeRequest takes the texts directly or the ids of earlier uploads.
// Inline text wins when both are sent.
type AnalyzeRequest struct {
	JobDescription           string `json:"jobDescription"`
	Resume                   string `json:"resume"`
	JobDescriptionDocumentID string `json:"jobDescriptionDocumentId"`
	ResumeDocumentID         string `json:"resumeDocumentId"`
}

type AnalyzeResponse struct {
	ID uuid.UUID `json:"id"`
	MatchAnalysis
	MatchBand ScoreBand `json:"matchBand"`
}

func NewAnalyzeResponse(a *Analysis) AnalyzeResponse {
	return AnalyzeResponse{
		ID:            a.ID,
		MatchAnalysis: a.Result(),
		MatchBand:     BandFor(a.MatchScore),
	}
}

// InterviewTurnRequest carries the whole conversation; the server keeps nothing between calls.
// Messages is accepted as an alias of Transcript.
type InterviewTurnRequest struct {
	Transcript      []InterviewTurnMessage `json:"transcript"`
	Messages        []InterviewTurnMessage `json:"messages"`
	JobDescription  string                 `json:"jobDescription"`
	CurrentQuestion string                 `json:"currentQuestion"`
	IsComplete      bool                   `json:"isComplete"`
}

func (r *InterviewTurnRequest) Turns() []InterviewTurnMessage {
	if len(r.Transcript) > 0 {
		return r.Transcript
	}
	return r.Messages
}

type InterviewTurnResponse struct {
	Response string `json:"response"`
}

type StartSessionRequest struct {
	AnalysisID     string         `json:"analysisId"`
	Analysis       *MatchAnalysis `json:"analysis"`
	JobDescription string         `json:"jobDescription"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

type FetchJobRequest struct {
	URL string `json:"url"`
}

type SimilarAnalysis struct {
	AnalysisID string  `json:"analysisId"`
	Score      float32 `json:"score"`
	MatchScore int     `json:"matchScore"`
	Summary    string  `json:"summary"`
}
