package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/interview"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

const (
	analysisJSON = `{"matchScore":74,"summary":"Good fit.","strengths":["Go"],"missingSkills":["Kafka"],"interviewQuestions":[{"question":"Why Go?","type":"Technical"},{"question":"A conflict?","type":"Behavioral"}]}`
	summaryJSON  = `{"overallScore":35,"summary":"Needs work.","strengths":[],"improvements":["depth"],"recommendation":"Not Ready"}`
)

type queuedCompleter struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string

	// entered and gate, when set, hold each call until gate is closed.
	entered chan struct{}
	gate    chan struct{}
}

func (q *queuedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if q.gate != nil {
		select {
		case q.entered <- struct{}{}:
		default:
		}
		<-q.gate
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.prompts = append(q.prompts, prompt)
	if q.err != nil {
		return "", q.err
	}
	if len(q.replies) == 0 {
		return "", &services.BackendError{Op: "generate content", Err: errors.New("no reply queued")}
	}
	r := q.replies[0]
	q.replies = q.replies[1:]
	return r, nil
}

type memAnalysisRepo struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]*models.Analysis
}

func (m *memAnalysisRepo) Create(a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = a
	return nil
}

func (m *memAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.analyses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return a, nil
}

func (m *memAnalysisRepo) FindUnindexed(limit int) ([]models.Analysis, error) { return nil, nil }

func (m *memAnalysisRepo) MarkIndexed(id uuid.UUID) error { return nil }

type memDocumentRepo struct {
	docs []models.Document
}

func (m *memDocumentRepo) Create(d *models.Document) error {
	m.docs = append(m.docs, *d)
	return nil
}

func (m *memDocumentRepo) FindText(id uuid.UUID, fileType string) (string, error) {
	for _, d := range m.docs {
		if d.ID == id && d.FileType == fileType {
			return d.Text, nil
		}
	}
	return "", repositories.ErrNotFound
}

type testEnv struct {
	app       *fiber.App
	completer *queuedCompleter
	analyses  *memAnalysisRepo
	documents *memDocumentRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		completer: &queuedCompleter{},
		analyses:  &memAnalysisRepo{analyses: make(map[uuid.UUID]*models.Analysis)},
		documents: &memDocumentRepo{},
	}

	storage, err := services.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	coach := interview.NewCoach(env.completer)
	store := interview.NewStore(time.Hour)

	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(env.app.Group("/api/v1"), Handlers{
		Analyze: NewAnalyzeHandler(
			services.NewAnalyzerService(env.completer, env.analyses, nil),
			env.analyses,
			env.documents,
			services.NewSimilarityService(env.analyses, nil, nil),
		),
		Interview: NewInterviewHandler(env.completer),
		Session:   NewSessionHandler(coach, store, env.analyses),
		Upload:    NewUploadHandler(env.documents, storage, services.NewTextExtractor(), 1024),
		Job:       NewJobHandler(services.NewJobFetcher(&http.Client{Timeout: 5 * time.Second})),
	})
	return env
}

func (env *testEnv) queue(replies ...string) {
	env.completer.mu.Lock()
	defer env.completer.mu.Unlock()
	env.completer.replies = append(env.completer.replies, replies...)
}

func (env *testEnv) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return env.send(t, req)
}

func (env *testEnv) send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", req.Method, req.URL.Path, raw, err)
		}
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	code, body := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if code != fiber.StatusOK || body["status"] != "healthy" {
		t.Fatalf("health = %d %v", code, body)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/v1/analyze", models.AnalyzeRequest{JobDescription: "  ", Resume: "resume"})
	if code != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if body["error"] != "Job description is required." {
		t.Fatalf("error = %v", body["error"])
	}
	if len(env.completer.prompts) != 0 {
		t.Fatal("backend called for invalid input")
	}
}

func TestAnalyzeAndFetchStored(t *testing.T) {
	env := newTestEnv(t)
	env.queue(analysisJSON)

	code, body := env.do(t, http.MethodPost, "/api/v1/analyze", models.AnalyzeRequest{JobDescription: "Go role", Resume: "Gopher"})
	if code != fiber.StatusOK {
		t.Fatalf("status = %d, body %v", code, body)
	}
	if body["matchScore"] != float64(74) || body["matchBand"] != "high" {
		t.Fatalf("unexpected analysis body: %v", body)
	}
	questions, _ := body["interviewQuestions"].([]any)
	if len(questions) != 2 {
		t.Fatalf("questions = %v", body["interviewQuestions"])
	}

	id, _ := body["id"].(string)
	code, body = env.do(t, http.MethodGet, "/api/v1/analyses/"+id, nil)
	if code != fiber.StatusOK || body["jobDescription"] != "Go role" {
		t.Fatalf("get analysis = %d %v", code, body)
	}

	code, _ = env.do(t, http.MethodGet, "/api/v1/analyses/"+uuid.NewString(), nil)
	if code != fiber.StatusNotFound {
		t.Fatalf("unknown analysis status = %d, want 404", code)
	}
}

func TestBackendFailuresUseGenericMessage(t *testing.T) {
	env := newTestEnv(t)
	env.completer.err = &services.BackendError{Op: "generate content", Err: errors.New("upstream secret detail")}

	code, body := env.do(t, http.MethodPost, "/api/v1/analyze", models.AnalyzeRequest{JobDescription: "jd", Resume: "cv"})
	if code != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if body["error"] != services.GenericFailureMessage {
		t.Fatalf("error = %v", body["error"])
	}

	env.completer.err = nil
	env.queue("I think the candidate is great!")
	code, body = env.do(t, http.MethodPost, "/api/v1/analyze", models.AnalyzeRequest{JobDescription: "jd", Resume: "cv"})
	if code != fiber.StatusInternalServerError || body["error"] != services.GenericFailureMessage {
		t.Fatalf("malformed response = %d %v", code, body)
	}
}

func TestSimilarWithoutIndex(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.do(t, http.MethodGet, "/api/v1/analyses/"+uuid.NewString()+"/similar", nil)
	if code != fiber.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
}

func TestInterviewTurn(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPost, "/api/v1/interview", map[string]any{
		"transcript": []models.InterviewTurnMessage{{Role: models.RoleAssistant, Content: "Why Go?"}},
		"isComplete": false,
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("transcript ending with assistant = %d, want 400", code)
	}

	env.queue("Clear answer.\nNEXT: Tell me about a conflict.")
	code, body := env.do(t, http.MethodPost, "/api/v1/interview", map[string]any{
		"messages": []models.InterviewTurnMessage{
			{Role: models.RoleAssistant, Content: "Why Go?"},
			{Role: models.RoleUser, Content: "Simplicity."},
		},
		"jobDescription":  "Go role",
		"currentQuestion": "Why Go?",
	})
	if code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["response"] != "Clear answer.\nNEXT: Tell me about a conflict." {
		t.Fatalf("response = %v", body["response"])
	}
	if !strings.Contains(env.completer.prompts[0], "Simplicity.") {
		t.Fatal("answer missing from prompt")
	}
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	analysis := models.MatchAnalysis{
		MatchScore:         60,
		Summary:            "ok",
		InterviewQuestions: []models.InterviewQuestion{{Question: "Why Go?", Type: models.QuestionTechnical}},
	}

	code, body := env.do(t, http.MethodPost, "/api/v1/sessions", models.StartSessionRequest{Analysis: &analysis, JobDescription: "Go role"})
	if code != fiber.StatusCreated || body["status"] != "in_progress" {
		t.Fatalf("create = %d %v", code, body)
	}
	id, _ := body["id"].(string)
	base := "/api/v1/sessions/" + id

	code, _ = env.do(t, http.MethodPost, base+"/answers", models.SubmitAnswerRequest{Answer: "  "})
	if code != fiber.StatusBadRequest {
		t.Fatalf("blank answer = %d, want 400", code)
	}

	env.queue("Good.\nNEXT: INTERVIEW_COMPLETE", summaryJSON)
	code, body = env.do(t, http.MethodPost, base+"/answers", models.SubmitAnswerRequest{Answer: "Simplicity."})
	if code != fiber.StatusOK {
		t.Fatalf("answer = %d %v", code, body)
	}
	if body["status"] != "complete" || body["summaryBand"] != "low" {
		t.Fatalf("unexpected completed session: %v", body)
	}

	code, _ = env.do(t, http.MethodPost, base+"/answers", models.SubmitAnswerRequest{Answer: "more"})
	if code != fiber.StatusConflict {
		t.Fatalf("answer after completion = %d, want 409", code)
	}

	code, _ = env.do(t, http.MethodDelete, base, nil)
	if code != fiber.StatusNoContent {
		t.Fatalf("delete = %d, want 204", code)
	}
	code, _ = env.do(t, http.MethodGet, base, nil)
	if code != fiber.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", code)
	}
}

func TestSessionRejectsConcurrentAnswer(t *testing.T) {
	env := newTestEnv(t)
	analysis := models.MatchAnalysis{
		MatchScore: 60,
		Summary:    "ok",
		InterviewQuestions: []models.InterviewQuestion{
			{Question: "Why Go?", Type: models.QuestionTechnical},
			{Question: "A conflict?", Type: models.QuestionBehavioral},
		},
	}
	_, body := env.do(t, http.MethodPost, "/api/v1/sessions", models.StartSessionRequest{Analysis: &analysis})
	base := "/api/v1/sessions/" + body["id"].(string)

	env.completer.entered = make(chan struct{}, 1)
	env.completer.gate = make(chan struct{})
	env.queue("Good.\nNEXT: A conflict?")

	first := make(chan int, 1)
	go func() {
		data, _ := json.Marshal(models.SubmitAnswerRequest{Answer: "Simplicity."})
		req := httptest.NewRequest(http.MethodPost, base+"/answers", bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		resp, err := env.app.Test(req, -1)
		if err != nil {
			first <- 0
			return
		}
		resp.Body.Close()
		first <- resp.StatusCode
	}()

	select {
	case <-env.completer.entered:
	case <-time.After(5 * time.Second):
		close(env.completer.gate)
		t.Fatal("first answer never reached the model")
	}

	code, body := env.do(t, http.MethodPost, base+"/answers", models.SubmitAnswerRequest{Answer: "Again."})
	if code != fiber.StatusConflict {
		t.Fatalf("concurrent answer = %d %v, want 409", code, body)
	}
	code, _ = env.do(t, http.MethodPost, base+"/summary", nil)
	if code != fiber.StatusConflict {
		t.Fatalf("summary during turn = %d, want 409", code)
	}

	close(env.completer.gate)
	if code := <-first; code != fiber.StatusOK {
		t.Fatalf("first answer = %d, want 200", code)
	}

	_, body = env.do(t, http.MethodGet, base, nil)
	transcript, _ := body["transcript"].([]any)
	if len(transcript) != 4 {
		t.Fatalf("transcript has %d entries, want 4: %v", len(transcript), transcript)
	}
}

func TestSessionFromStoredAnalysis(t *testing.T) {
	env := newTestEnv(t)
	stored := models.NewAnalysis("Go role", "resume", &models.MatchAnalysis{
		MatchScore:         80,
		Summary:            "great",
		InterviewQuestions: []models.InterviewQuestion{{Question: "Why Go?", Type: models.QuestionTechnical}},
	})
	_ = env.analyses.Create(stored)

	code, body := env.do(t, http.MethodPost, "/api/v1/sessions", models.StartSessionRequest{AnalysisID: stored.ID.String()})
	if code != fiber.StatusCreated || body["analysisId"] != stored.ID.String() {
		t.Fatalf("create = %d %v", code, body)
	}

	code, _ = env.do(t, http.MethodPost, "/api/v1/sessions", models.StartSessionRequest{AnalysisID: uuid.NewString()})
	if code != fiber.StatusNotFound {
		t.Fatalf("unknown analysis = %d, want 404", code)
	}

	code, _ = env.do(t, http.MethodPost, "/api/v1/sessions", models.StartSessionRequest{Analysis: &models.MatchAnalysis{MatchScore: 1, Summary: "x"}})
	if code != fiber.StatusBadRequest {
		t.Fatalf("analysis without questions = %d, want 400", code)
	}
}

func TestSummaryRetryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	analysis := models.MatchAnalysis{
		MatchScore:         60,
		Summary:            "ok",
		InterviewQuestions: []models.InterviewQuestion{{Question: "Why Go?", Type: models.QuestionTechnical}},
	}
	_, body := env.do(t, http.MethodPost, "/api/v1/sessions", models.StartSessionRequest{Analysis: &analysis})
	base := "/api/v1/sessions/" + body["id"].(string)

	code, _ := env.do(t, http.MethodPost, base+"/summary", nil)
	if code != fiber.StatusConflict {
		t.Fatalf("summary with nothing pending = %d, want 409", code)
	}

	env.queue("Good.")
	code, _ = env.do(t, http.MethodPost, base+"/answers", models.SubmitAnswerRequest{Answer: "Simplicity."})
	if code != fiber.StatusInternalServerError {
		t.Fatalf("answer with failing summary = %d, want 500", code)
	}

	env.queue(summaryJSON)
	code, body = env.do(t, http.MethodPost, base+"/summary", nil)
	if code != fiber.StatusOK || body["status"] != "complete" {
		t.Fatalf("summary retry = %d %v", code, body)
	}
}

func TestUploadExtractsText(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume", "cv.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write([]byte("Jane Doe\nGo developer"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	code, body := env.send(t, req)
	if code != fiber.StatusCreated {
		t.Fatalf("upload = %d %v", code, body)
	}
	docs, _ := body["documents"].([]any)
	if len(docs) != 1 {
		t.Fatalf("documents = %v", body["documents"])
	}
	doc := docs[0].(map[string]any)
	if doc["text"] != "Jane Doe\nGo developer" || doc["file_type"] != "resume" {
		t.Fatalf("unexpected document: %v", doc)
	}
	if len(env.documents.docs) != 1 {
		t.Fatal("document record not stored")
	}
}

func TestAnalyzeFromUploadedDocuments(t *testing.T) {
	env := newTestEnv(t)
	resume := models.NewDocument(models.DocumentResume, "resume_1.txt", "cv.txt", "/tmp/resume_1.txt", "Gopher since 2012")
	jd := models.NewDocument(models.DocumentJobDescription, "job_description_1.txt", "jd.txt", "/tmp/jd.txt", "Staff Go engineer")
	_ = env.documents.Create(resume)
	_ = env.documents.Create(jd)

	env.queue(analysisJSON)
	code, body := env.do(t, http.MethodPost, "/api/v1/analyze", models.AnalyzeRequest{
		JobDescriptionDocumentID: jd.ID.String(),
		ResumeDocumentID:         resume.ID.String(),
	})
	if code != fiber.StatusOK {
		t.Fatalf("status = %d, body %v", code, body)
	}
	prompt := env.completer.prompts[0]
	if !strings.Contains(prompt, "Gopher since 2012") || !strings.Contains(prompt, "Staff Go engineer") {
		t.Fatal("uploaded texts missing from prompt")
	}

	// A resume id in the job description slot is not found.
	code, _ = env.do(t, http.MethodPost, "/api/v1/analyze", models.AnalyzeRequest{
		JobDescriptionDocumentID: resume.ID.String(),
		Resume:                   "inline resume",
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("mismatched document type = %d, want 400", code)
	}
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("resume", "photo.png")
	_, _ = part.Write([]byte("png"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	if code, _ := env.send(t, req); code != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if len(env.documents.docs) != 0 {
		t.Fatal("rejected upload was stored")
	}
}

func TestFetchJobDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Go Engineer</title></head><body><p>Write Go.</p></body></html>`))
	}))
	defer srv.Close()

	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/v1/job-descriptions/fetch", models.FetchJobRequest{URL: srv.URL})
	if code != fiber.StatusOK || body["description"] != "Write Go." || body["title"] != "Go Engineer" {
		t.Fatalf("fetch = %d %v", code, body)
	}

	code, _ = env.do(t, http.MethodPost, "/api/v1/job-descriptions/fetch", models.FetchJobRequest{})
	if code != fiber.StatusBadRequest {
		t.Fatalf("missing url = %d, want 400", code)
	}
}
