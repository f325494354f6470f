package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/learniz/backend/internal/domain/quiz"
	"github.com/learniz/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type AskRequest struct {
	UserID  string `json:"user_id" example:"u1"`
	Subject string `json:"subject" example:"math"`
	Query   string `json:"query" example:"What is 2+2?"`
}

func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(r.Subject) == "" {
		return errors.New("subject is required")
	}
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query is required")
	}
	return nil
}

// QuizView is an MCQ as shown to the client. Correct is omitted while the
// answer is hidden.
type QuizView struct {
	Question string   `json:"question" example:"What is 2+2?"`
	Options  []string `json:"options" example:"3,4,5"`
	Correct  *string  `json:"correct,omitempty" example:"4"`
}

type AskResponse struct {
	Answer    string    `json:"answer" example:"2+2 equals 4."`
	QuizID    string    `json:"quiz_id" example:"3f2b8c1e-7d4a-4e0b-9c55-0a1d2e3f4a5b"`
	Quiz      QuizView  `json:"quiz"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SubmitAnswerRequest struct {
	QuizID     string `json:"quiz_id" example:"3f2b8c1e-7d4a-4e0b-9c55-0a1d2e3f4a5b"`
	UserID     string `json:"user_id" example:"u1"`
	UserChoice string `json:"user_choice" example:"4"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if strings.TrimSpace(r.QuizID) == "" {
		return errors.New("quiz_id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.UserChoice == "" {
		return errors.New("user_choice is required")
	}
	return nil
}

type SubmitAnswerResponse struct {
	QuizID    string `json:"quiz_id" example:"3f2b8c1e-7d4a-4e0b-9c55-0a1d2e3f4a5b"`
	IsCorrect bool   `json:"is_correct" example:"true"`
}

// SessionView is a stored quiz session. The correct option is only shown
// once the session has been answered.
type SessionView struct {
	QuizID     string     `json:"quiz_id"`
	UserID     string     `json:"user_id"`
	Subject    string     `json:"subject"`
	Query      string     `json:"query"`
	Answer     string     `json:"answer"`
	Quiz       QuizView   `json:"quiz"`
	UserChoice *string    `json:"user_choice"`
	IsCorrect  *bool      `json:"is_correct"`
	CreatedAt  time.Time  `json:"created_at"`
	AnsweredAt *time.Time `json:"answered_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

func newQuizView(mcq quiz.MCQ, reveal bool) QuizView {
	v := QuizView{Question: mcq.Question, Options: mcq.Options}
	if reveal {
		correct := mcq.Correct
		v.Correct = &correct
	}
	return v
}

func newSessionView(s *quiz.Session) SessionView {
	return SessionView{
		QuizID:     s.ID,
		UserID:     s.UserID,
		Subject:    s.Subject,
		Query:      s.Query,
		Answer:     s.Answer,
		Quiz:       newQuizView(s.MCQ, s.Answered()),
		UserChoice: s.UserChoice,
		IsCorrect:  s.IsCorrect,
		CreatedAt:  s.CreatedAt,
		AnsweredAt: s.AnsweredAt,
		ExpiresAt:  s.ExpiresAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// ask godoc
// @Summary      Ask a question
// @Description  Generates an answer and a three-option quiz for the question and stores the quiz for later grading.
// @Tags         Tutoring
// @Accept       json
// @Produce      json
// @Param        body  body      AskRequest  true  "Question to ask"
// @Success      201   {object}  AskResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/ask [post]
func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !authorize(w, r, req.UserID) {
		return
	}

	session, err := h.tutoring.Ask(r.Context(), service.AskRequest{
		UserID:  req.UserID,
		Subject: req.Subject,
		Query:   req.Query,
	})
	if h.handleStoreError(w, err, "quiz") {
		return
	}

	respondJSON(w, http.StatusCreated, AskResponse{
		Answer:    session.Answer,
		QuizID:    session.ID,
		Quiz:      newQuizView(session.MCQ, h.revealAnswerOnAsk),
		ExpiresAt: session.ExpiresAt,
	})
}

// submitAnswer godoc
// @Summary      Answer a quiz
// @Description  Grades the choice by exact match. Each quiz can be answered once.
// @Tags         Quizzes
// @Accept       json
// @Produce      json
// @Param        body  body      SubmitAnswerRequest  true  "Chosen option"
// @Success      200   {object}  SubmitAnswerResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "quiz not found"
// @Failure      409   {object}  map[string]string  "quiz already answered"
// @Failure      500   {object}  map[string]string
// @Router       /api/quiz/answer [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !authorize(w, r, req.UserID) {
		return
	}

	result, err := h.grading.SubmitAnswer(r.Context(), req.QuizID, req.UserID, req.UserChoice)
	if h.handleStoreError(w, err, "quiz") {
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		QuizID:    result.QuizID,
		IsCorrect: result.IsCorrect,
	})
}

// getQuiz godoc
// @Summary      Get a quiz
// @Description  Returns a stored quiz session. The correct option is included once answered.
// @Tags         Quizzes
// @Produce      json
// @Param        quizID   path      string  true  "Quiz ID"
// @Param        user_id  query     string  true  "Owner of the quiz"
// @Success      200      {object}  SessionView
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/quiz/{quizID} [get]
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("quizID")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if !authorize(w, r, userID) {
		return
	}

	session, err := h.store.FindSession(r.Context(), quizID, userID)
	if h.handleStoreError(w, err, "quiz") {
		return
	}

	respondJSON(w, http.StatusOK, newSessionView(session))
}
