package api

import (
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/learniz/backend/internal/domain/progress"
	"github.com/learniz/backend/internal/domain/quiz"
	"github.com/learniz/backend/internal/store"
)

// ── Response types ──────────────────────────────────────────────────────────

type SubjectStatResponse struct {
	Subject  string `json:"subject" example:"math"`
	Attempts int    `json:"attempts" example:"10"`
	Correct  int    `json:"correct" example:"7"`
	Accuracy int    `json:"accuracy" example:"70"`
}

func newSubjectStatResponse(s progress.SubjectStat) SubjectStatResponse {
	return SubjectStatResponse{
		Subject:  s.Subject,
		Attempts: s.Attempts,
		Correct:  s.Correct,
		Accuracy: s.Accuracy(),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listProgress godoc
// @Summary      Quiz history
// @Description  Lists a user's quiz sessions, newest first.
// @Tags         Progress
// @Produce      json
// @Param        userID   path      string  true   "User ID"
// @Param        subject  query     string  false  "Only this subject"
// @Param        limit    query     int     false  "Maximum sessions (default 200, max 1000)"
// @Success      200      {array}   SessionView
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/progress/{userID} [get]
func (h *Handler) listProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if !authorize(w, r, userID) {
		return
	}

	filter := store.SessionFilter{
		UserID:  userID,
		Subject: r.URL.Query().Get("subject"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	sessions, err := h.store.ListSessions(r.Context(), filter)
	if h.handleStoreError(w, err, "sessions") {
		return
	}

	respondJSON(w, http.StatusOK, lo.Map(sessions, func(s *quiz.Session, _ int) SessionView {
		return newSessionView(s)
	}))
}

// listStats godoc
// @Summary      Per-subject statistics
// @Description  Returns attempts, correct answers and accuracy per subject.
// @Tags         Progress
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200     {array}   SubjectStatResponse
// @Failure      500     {object}  map[string]string
// @Router       /api/stats/{userID} [get]
func (h *Handler) listStats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if !authorize(w, r, userID) {
		return
	}

	stats, err := h.store.ListSubjectStats(r.Context(), userID)
	if h.handleStoreError(w, err, "stats") {
		return
	}

	respondJSON(w, http.StatusOK, lo.Map(stats, func(s progress.SubjectStat, _ int) SubjectStatResponse {
		return newSubjectStatResponse(s)
	}))
}
