package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learniz/backend/internal/api"
	"github.com/learniz/backend/internal/domain/quiz"
	"github.com/learniz/backend/internal/generation"
	"github.com/learniz/backend/internal/platform/logger"
	"github.com/learniz/backend/internal/service"
	"github.com/learniz/backend/internal/store"
	"github.com/learniz/backend/internal/tutor"
)

// staticBackend answers every prompt with the same text.
type staticBackend string

func (b staticBackend) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return string(b), nil
}

type testServer struct {
	*httptest.Server
	store store.Store
}

type serverOptions struct {
	output    string
	reveal    bool
	jwtSecret string
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	log := logger.NewNop()

	s, err := store.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "learniz.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	gw := generation.NewGateway(staticBackend(opts.output), generation.Options{Timeout: 5 * time.Second, Workers: 2}, log)
	t.Cleanup(gw.Close)

	tutoring := service.NewTutoringService(s, tutor.New(gw, log), 15*time.Second, log)
	grading := service.NewGradingService(s, log)
	h := api.NewHandler(s, tutoring, grading, log, api.Options{RevealAnswerOnAsk: opts.reveal})

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, h)
	handler := api.RequestID(api.Logging(log)(api.Recover(log)(api.CORS([]string{"*"})(api.Auth(opts.jwtSecret)(mux)))))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: s}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

const validQuizOutput = `Sure! {"question": "What is 2+2?", "options": ["3", "4", "5"], "correct": "4"} Hope that helps.`

func askBody(user string) api.AskRequest {
	return api.AskRequest{UserID: user, Subject: "math", Query: "What is 2+2?"}
}

// ============================================================================
// Ask
// ============================================================================

func TestAsk_GibberishFallsBackToDefaultQuiz(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: "lorem ipsum no braces here", reveal: true})

	resp := ts.do(t, http.MethodPost, "/api/ask", "", askBody("u1"))
	expectStatus(t, resp, http.StatusCreated)
	got := decode[api.AskResponse](t, resp)

	if got.Quiz.Question != "What concept is being tested related to: What is 2+2??" {
		t.Errorf("unexpected fallback question: %q", got.Quiz.Question)
	}
	wantOptions := []string{"Option A", "Option B", "Option C"}
	if strings.Join(got.Quiz.Options, ",") != strings.Join(wantOptions, ",") {
		t.Errorf("expected %v, got %v", wantOptions, got.Quiz.Options)
	}
	if got.Quiz.Correct == nil || *got.Quiz.Correct != "Option A" {
		t.Errorf("expected correct Option A, got %v", got.Quiz.Correct)
	}
	if got.Answer != "lorem ipsum no braces here" {
		t.Errorf("expected generated answer text, got %q", got.Answer)
	}
	if got.QuizID == "" {
		t.Fatal("expected a quiz id")
	}

	if _, err := ts.store.FindSession(context.Background(), got.QuizID, "u1"); err != nil {
		t.Errorf("expected quiz to be stored, got %v", err)
	}
}

func TestAsk_ParsesGeneratedQuiz(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput, reveal: true})

	resp := ts.do(t, http.MethodPost, "/api/ask", "", askBody("u1"))
	expectStatus(t, resp, http.StatusCreated)
	got := decode[api.AskResponse](t, resp)

	if got.Quiz.Question != "What is 2+2?" || got.Quiz.Correct == nil || *got.Quiz.Correct != "4" {
		t.Errorf("unexpected quiz: %+v", got.Quiz)
	}
	if got.ExpiresAt.IsZero() {
		t.Error("expected expires_at to be set")
	}
}

func TestAsk_HidesCorrectWhenRevealDisabled(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput, reveal: false})

	resp := ts.do(t, http.MethodPost, "/api/ask", "", askBody("u1"))
	expectStatus(t, resp, http.StatusCreated)

	var raw struct {
		Quiz map[string]json.RawMessage `json:"quiz"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := raw.Quiz["correct"]; ok {
		t.Error("expected correct to be omitted")
	}
	if _, ok := raw.Quiz["question"]; !ok {
		t.Error("expected question to be present")
	}
}

func TestAsk_Validation(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput})

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing user", api.AskRequest{Subject: "math", Query: "q"}, "user_id is required"},
		{"missing subject", api.AskRequest{UserID: "u1", Query: "q"}, "subject is required"},
		{"blank query", api.AskRequest{UserID: "u1", Subject: "math", Query: "   "}, "query is required"},
		{"not an object", []int{1, 2}, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodPost, "/api/ask", "", tt.body)
			expectStatus(t, resp, http.StatusBadRequest)
			got := decode[map[string]string](t, resp)
			if got["error"] != tt.want {
				t.Errorf("expected error %q, got %q", tt.want, got["error"])
			}
		})
	}
}

// ============================================================================
// Answer
// ============================================================================

func TestSubmitAnswer_OnceThenConflict(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput, reveal: true})

	asked := decode[api.AskResponse](t, ts.do(t, http.MethodPost, "/api/ask", "", askBody("u1")))

	resp := ts.do(t, http.MethodPost, "/api/quiz/answer", "", api.SubmitAnswerRequest{
		QuizID: asked.QuizID, UserID: "u1", UserChoice: "4",
	})
	expectStatus(t, resp, http.StatusOK)
	got := decode[api.SubmitAnswerResponse](t, resp)
	if !got.IsCorrect || got.QuizID != asked.QuizID {
		t.Errorf("expected correct answer for %s, got %+v", asked.QuizID, got)
	}

	resp = ts.do(t, http.MethodPost, "/api/quiz/answer", "", api.SubmitAnswerRequest{
		QuizID: asked.QuizID, UserID: "u1", UserChoice: "3",
	})
	expectStatus(t, resp, http.StatusConflict)
	if msg := decode[map[string]string](t, resp)["error"]; msg != quiz.ErrAlreadyAnswered.Error() {
		t.Errorf("unexpected error message %q", msg)
	}

	stats := decode[[]api.SubjectStatResponse](t, ts.do(t, http.MethodGet, "/api/stats/u1", "", nil))
	if len(stats) != 1 || stats[0].Attempts != 1 || stats[0].Correct != 1 || stats[0].Accuracy != 100 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestSubmitAnswer_NotFound(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput})
	asked := decode[api.AskResponse](t, ts.do(t, http.MethodPost, "/api/ask", "", askBody("u1")))

	tests := []struct {
		name string
		req  api.SubmitAnswerRequest
	}{
		{"unknown quiz", api.SubmitAnswerRequest{QuizID: "missing", UserID: "u1", UserChoice: "4"}},
		{"other user", api.SubmitAnswerRequest{QuizID: asked.QuizID, UserID: "u2", UserChoice: "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodPost, "/api/quiz/answer", "", tt.req)
			expectStatus(t, resp, http.StatusNotFound)
		})
	}
}

func TestSubmitAnswer_Validation(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput})

	resp := ts.do(t, http.MethodPost, "/api/quiz/answer", "", api.SubmitAnswerRequest{QuizID: "q", UserID: "u1"})
	expectStatus(t, resp, http.StatusBadRequest)
}

// ============================================================================
// Read endpoints
// ============================================================================

func TestGetQuiz_RevealsCorrectOnlyAfterAnswer(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput, reveal: false})
	asked := decode[api.AskResponse](t, ts.do(t, http.MethodPost, "/api/ask", "", askBody("u1")))
	path := "/api/quiz/" + asked.QuizID + "?user_id=u1"

	before := decode[api.SessionView](t, ts.do(t, http.MethodGet, path, "", nil))
	if before.Quiz.Correct != nil || before.UserChoice != nil {
		t.Errorf("expected unanswered quiz without correct option, got %+v", before)
	}

	expectStatus(t, ts.do(t, http.MethodPost, "/api/quiz/answer", "", api.SubmitAnswerRequest{
		QuizID: asked.QuizID, UserID: "u1", UserChoice: "5",
	}), http.StatusOK)

	after := decode[api.SessionView](t, ts.do(t, http.MethodGet, path, "", nil))
	if after.Quiz.Correct == nil || *after.Quiz.Correct != "4" {
		t.Errorf("expected correct option after answering, got %v", after.Quiz.Correct)
	}
	if after.IsCorrect == nil || *after.IsCorrect {
		t.Errorf("expected is_correct false, got %v", after.IsCorrect)
	}

	expectStatus(t, ts.do(t, http.MethodGet, "/api/quiz/"+asked.QuizID, "", nil), http.StatusBadRequest)
	expectStatus(t, ts.do(t, http.MethodGet, "/api/quiz/"+asked.QuizID+"?user_id=u2", "", nil), http.StatusNotFound)
}

func TestProgress(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput})

	for _, subject := range []string{"math", "physics", "math"} {
		body := api.AskRequest{UserID: "u1", Subject: subject, Query: "q"}
		expectStatus(t, ts.do(t, http.MethodPost, "/api/ask", "", body), http.StatusCreated)
	}

	all := decode[[]api.SessionView](t, ts.do(t, http.MethodGet, "/api/progress/u1", "", nil))
	if len(all) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(all))
	}

	maths := decode[[]api.SessionView](t, ts.do(t, http.MethodGet, "/api/progress/u1?subject=math", "", nil))
	if len(maths) != 2 {
		t.Errorf("expected 2 math sessions, got %d", len(maths))
	}

	one := decode[[]api.SessionView](t, ts.do(t, http.MethodGet, "/api/progress/u1?limit=1", "", nil))
	if len(one) != 1 {
		t.Errorf("expected 1 session, got %d", len(one))
	}

	expectStatus(t, ts.do(t, http.MethodGet, "/api/progress/u1?limit=zero", "", nil), http.StatusBadRequest)

	none := decode[[]api.SessionView](t, ts.do(t, http.MethodGet, "/api/progress/nobody", "", nil))
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty list, got %v", none)
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, serverOptions{output: validQuizOutput})
	asked := decode[api.AskResponse](t, ts.do(t, http.MethodPost, "/api/ask", "", askBody("u1")))
	expectStatus(t, ts.do(t, http.MethodPost, "/api/quiz/answer", "", api.SubmitAnswerRequest{
		QuizID: asked.QuizID, UserID: "u1", UserChoice: "3",
	}), http.StatusOK)

	resp := ts.do(t, http.MethodGet, "/api/export/u1", "", nil)
	expectStatus(t, resp, http.StatusOK)
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}

	got := decode[api.ExportData](t, resp)
	if got.UserID != "u1" || len(got.Sessions) != 1 || len(got.Stats) != 1 {
		t.Errorf("unexpected export: %+v", got)
	}
	if got.Overall.Attempts != 1 || got.Overall.Correct != 0 || got.Overall.Accuracy != 0 {
		t.Errorf("unexpected overall: %+v", got.Overall)
	}
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/", "", nil)
	expectStatus(t, resp, http.StatusOK)
	if msg := decode[map[string]string](t, resp)["message"]; msg != "Learniz API running" {
		t.Errorf("unexpected root message %q", msg)
	}

	resp = ts.do(t, http.MethodGet, "/health", "", nil)
	expectStatus(t, resp, http.StatusOK)
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header")
	}
}

// ============================================================================
// Auth
// ============================================================================

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestAuth(t *testing.T) {
	const secret = "test-secret"
	ts := newTestServer(t, serverOptions{output: validQuizOutput, jwtSecret: secret})

	u1 := signToken(t, secret, jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	legacy := signToken(t, secret, api.Claims{UserID: "u1"})
	foreign := signToken(t, "other-secret", jwt.RegisteredClaims{Subject: "u1"})
	expired := signToken(t, secret, jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))})

	tests := []struct {
		name  string
		token string
		user  string
		want  int
	}{
		{"no token", "", "u1", http.StatusUnauthorized},
		{"wrong key", foreign, "u1", http.StatusUnauthorized},
		{"expired", expired, "u1", http.StatusUnauthorized},
		{"matching subject", u1, "u1", http.StatusCreated},
		{"legacy user_id claim", legacy, "u1", http.StatusCreated},
		{"other user", u1, "u2", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodPost, "/api/ask", tt.token, askBody(tt.user))
			expectStatus(t, resp, tt.want)
		})
	}

	expectStatus(t, ts.do(t, http.MethodGet, "/health", "", nil), http.StatusOK)
	expectStatus(t, ts.do(t, http.MethodGet, "/api/stats/u2", u1, nil), http.StatusForbidden)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/ask", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	expectStatus(t, resp, http.StatusNoContent)
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}
