package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/backend"
	"github.com/goodlyheritage/entrance-portal/internal/config"
	"github.com/goodlyheritage/entrance-portal/internal/exam"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/model"
	"github.com/goodlyheritage/entrance-portal/internal/render"
	"github.com/goodlyheritage/entrance-portal/internal/response"
	"github.com/goodlyheritage/entrance-portal/internal/session"
	"github.com/goodlyheritage/entrance-portal/internal/validator"
)

const testSecret = "portal-test-secret"

// stubBackend is a fake examination backend with one pending exam.
type stubBackend struct {
	submits atomic.Int32
	cancels atomic.Int32
}

func (s *stubBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/auth/exam-settings", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"examDurationMinutes":60,"questionsPerSubject":{"Mathematics":2,"English":1}}}`)
	})

	mux.HandleFunc("GET /api/exam-results", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"exam-7","completed":false}]}`)
	})

	mux.HandleFunc("GET /api/questions/exam", func(w http.ResponseWriter, r *http.Request) {
		questions := []model.Question{
			{ID: "m1", Text: "What is $2^3$?", Options: []string{"6", "8", "9", "12"}, Subject: model.SubjectMathematics, Marks: 1},
			{ID: "m2", Text: "Simplify **2x** + 2x", Options: []string{"4x", "2x", "x", "0"}, Subject: model.SubjectMathematics, Marks: 1},
			{ID: "m3", Text: "Spare question", Options: []string{"a", "b", "c", "d"}, Subject: model.SubjectMathematics, Marks: 1},
			{ID: "e1", Text: "Pick the noun", Options: []string{"run", "dog", "blue", "fast"}, Subject: model.SubjectEnglish, Marks: 1},
		}
		payload, _ := json.Marshal(questions)
		fmt.Fprintf(w, `{"data":%s}`, payload)
	})

	mux.HandleFunc("POST /api/exam-results/exam-7/submit", func(w http.ResponseWriter, r *http.Request) {
		s.submits.Add(1)
		fmt.Fprint(w, `{"data":{"ok":true}}`)
	})

	mux.HandleFunc("POST /api/exam-results/exam-7/cancel", func(w http.ResponseWriter, r *http.Request) {
		s.cancels.Add(1)
		fmt.Fprint(w, `{"data":{"ok":true}}`)
	})

	return mux
}

type portalFixture struct {
	router *gin.Engine
	token  string
	stub   *stubBackend
}

func newPortalFixture(t *testing.T) *portalFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	stub := &stubBackend{}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	client := backend.New(&config.Config{
		BackendURL:     srv.URL,
		BackendTimeout: 2 * time.Second,
	}, zerolog.Nop())

	registry := session.NewExamRegistry()
	t.Cleanup(registry.Close)

	controller := exam.NewController(client, client, exam.Defaults{
		DurationMinutes: 120,
		SubjectQuota:    20,
	}, rand.New(rand.NewSource(1)), zerolog.Nop())

	portal := NewPortalHandler(controller, registry, render.New(nil), zerolog.Nop())

	verifier := middleware.NewVerifier(testSecret)
	r := gin.New()
	api := r.Group("/api/v1", middleware.RequireStudent(verifier))
	api.POST("/exam/session", portal.Start)
	api.GET("/exam/session", portal.Get)
	api.PUT("/exam/session/answer", portal.Answer)
	api.POST("/exam/session/navigate", portal.Navigate)
	api.POST("/exam/session/jump", portal.Jump)
	api.POST("/exam/session/submit", portal.Submit)
	api.POST("/exam/session/exit", portal.RequestExit)
	api.POST("/exam/session/exit/confirm", portal.ConfirmExit)
	api.POST("/exam/session/resume", portal.Resume)

	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role:  model.RoleStudent,
		Email: "ada@example.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return &portalFixture{router: r, token: token, stub: stub}
}

func (f *portalFixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, *response.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+f.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var envelope response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %s: %v", w.Body.String(), err)
	}
	return w, &envelope
}

func viewData(t *testing.T, env *response.Response) map[string]interface{} {
	t.Helper()
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", env.Data)
	}
	return data
}

func TestExamFlow(t *testing.T) {
	f := newPortalFixture(t)

	// No session yet.
	w, env := f.do(t, http.MethodGet, "/api/v1/exam/session", nil)
	if w.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != response.ErrNoActiveExam {
		t.Fatalf("get before start: %d %+v", w.Code, env.Error)
	}

	// Start: quotas cap Mathematics at 2 and English at 1.
	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("start: %d %+v", w.Code, env.Error)
	}
	view := viewData(t, env)
	if total := view["total"].(float64); total != 3 {
		t.Fatalf("total = %v, want 3", total)
	}
	if remaining := view["remaining_seconds"].(float64); remaining != 3600 {
		t.Errorf("remaining = %v, want 3600", remaining)
	}
	if state := view["state"].(string); state != string(exam.StateActive) {
		t.Errorf("state = %v, want active", state)
	}
	rendered, ok := view["rendered_question"].(map[string]interface{})
	if !ok || rendered["html"] == "" {
		t.Errorf("rendered question missing: %v", view["rendered_question"])
	}

	// Double start conflicts.
	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session", nil)
	if w.Code != http.StatusConflict || env.Error.Code != response.ErrSessionInProgress {
		t.Fatalf("double start: %d %+v", w.Code, env.Error)
	}

	// Answer the current question.
	question := view["question"].(map[string]interface{})
	qid := question["id"].(string)
	w, env = f.do(t, http.MethodPut, "/api/v1/exam/session/answer", gin.H{"question_id": qid, "answer": "8"})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: %d %+v", w.Code, env.Error)
	}
	if got := viewData(t, env)["answered_count"].(float64); got != 1 {
		t.Errorf("answered_count = %v, want 1", got)
	}

	// Navigate forward; clamped navigation never errors.
	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session/navigate", gin.H{"direction": "next"})
	if w.Code != http.StatusOK {
		t.Fatalf("navigate: %d %+v", w.Code, env.Error)
	}
	if pos := viewData(t, env)["position"].(float64); pos != 1 {
		t.Errorf("position = %v, want 1", pos)
	}

	// Jump out of range.
	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session/jump", gin.H{"position": 99})
	if w.Code != http.StatusBadRequest || env.Error.Code != response.ErrPositionOutOfRange {
		t.Fatalf("jump out of range: %d %+v", w.Code, env.Error)
	}

	// Submit.
	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: %d %+v", w.Code, env.Error)
	}
	if f.stub.submits.Load() != 1 {
		t.Errorf("backend submits = %d, want 1", f.stub.submits.Load())
	}

	// Operations after the terminal state conflict.
	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session/navigate", gin.H{"direction": "next"})
	if w.Code != http.StatusConflict || env.Error.Code != response.ErrSessionFinished {
		t.Fatalf("navigate after submit: %d %+v", w.Code, env.Error)
	}
}

func TestExitGuardFlow(t *testing.T) {
	f := newPortalFixture(t)

	if w, env := f.do(t, http.MethodPost, "/api/v1/exam/session", nil); w.Code != http.StatusCreated {
		t.Fatalf("start: %d %+v", w.Code, env.Error)
	}

	// Exit with no answers offers the empty prompt; resume returns to active.
	w, env := f.do(t, http.MethodPost, "/api/v1/exam/session/exit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("exit: %d %+v", w.Code, env.Error)
	}
	if state := viewData(t, env)["state"].(string); state != string(exam.StateExitPromptEmpty) {
		t.Fatalf("state = %v, want exit-prompt-empty", state)
	}

	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session/resume", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("resume: %d %+v", w.Code, env.Error)
	}
	if state := viewData(t, env)["state"].(string); state != string(exam.StateActive) {
		t.Fatalf("state after resume = %v, want active", state)
	}

	// Exit again and confirm: with no answers this cancels the attempt.
	if w, env := f.do(t, http.MethodPost, "/api/v1/exam/session/exit", nil); w.Code != http.StatusOK {
		t.Fatalf("second exit: %d %+v", w.Code, env.Error)
	}
	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session/exit/confirm", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm exit: %d %+v", w.Code, env.Error)
	}
	if state := viewData(t, env)["state"].(string); state != string(exam.StateCancelled) {
		t.Errorf("state = %v, want cancelled", state)
	}
	if f.stub.cancels.Load() != 1 || f.stub.submits.Load() != 0 {
		t.Errorf("cancels=%d submits=%d, want 1 and 0", f.stub.cancels.Load(), f.stub.submits.Load())
	}
}

func TestValidationErrors(t *testing.T) {
	f := newPortalFixture(t)

	if w, env := f.do(t, http.MethodPost, "/api/v1/exam/session", nil); w.Code != http.StatusCreated {
		t.Fatalf("start: %d %+v", w.Code, env.Error)
	}

	w, env := f.do(t, http.MethodPut, "/api/v1/exam/session/answer", gin.H{"question_id": ""})
	if w.Code != http.StatusBadRequest || env.Error.Code != response.ErrValidation {
		t.Fatalf("empty answer payload: %d %+v", w.Code, env.Error)
	}

	w, env = f.do(t, http.MethodPost, "/api/v1/exam/session/navigate", gin.H{"direction": "sideways"})
	if w.Code != http.StatusBadRequest || env.Error.Code != response.ErrValidation {
		t.Fatalf("bad direction: %d %+v", w.Code, env.Error)
	}
}
