// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/learniz/backend/internal/domain/quiz"
	"github.com/learniz/backend/internal/platform/logger"
	"github.com/learniz/backend/internal/service"
	"github.com/learniz/backend/internal/store"
)

// maxBodyBytes caps request bodies; questions are short.
const maxBodyBytes = 64 << 10

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	store             store.Store
	tutoring          *service.TutoringService
	grading           *service.GradingService
	logger            *logger.Logger
	revealAnswerOnAsk bool
}

// Options tune response behaviour.
type Options struct {
	// RevealAnswerOnAsk includes the correct option in the ask response.
	RevealAnswerOnAsk bool
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s store.Store, tutoring *service.TutoringService, grading *service.GradingService, log *logger.Logger, opts Options) *Handler {
	return &Handler{
		store:             s,
		tutoring:          tutoring,
		grading:           grading,
		logger:            log.With("component", "api"),
		revealAnswerOnAsk: opts.RevealAnswerOnAsk,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes {"error": msg} with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// handleStoreError maps domain and storage errors onto HTTP responses.
// Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("store error", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

type validator interface {
	Validate() error
}

// decodeAndValidate decodes the JSON body into v and runs its Validate method.
// Returns false after writing a 400 response if either step fails.
func decodeAndValidate[T validator](w http.ResponseWriter, r *http.Request, v T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// authorize rejects requests whose target user differs from the bearer
// token's subject. Without an authenticated user every request passes.
func authorize(w http.ResponseWriter, r *http.Request, userID string) bool {
	subject, ok := AuthenticatedUser(r.Context())
	if !ok || subject == userID {
		return true
	}
	respondError(w, http.StatusForbidden, "token does not match user_id")
	return false
}
