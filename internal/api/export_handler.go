package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/learniz/backend/internal/domain/progress"
	"github.com/learniz/backend/internal/domain/quiz"
	"github.com/learniz/backend/internal/store"
)

// ── Response types ──────────────────────────────────────────────────────────

type ExportData struct {
	Version    string                `json:"version"`
	ExportedAt string                `json:"exported_at"`
	UserID     string                `json:"user_id"`
	Overall    SubjectStatResponse   `json:"overall"`
	Stats      []SubjectStatResponse `json:"stats"`
	Sessions   []SessionView         `json:"sessions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// exportUser godoc
// @Summary      Export a user's data
// @Description  Downloads statistics and up to 1000 recent quiz sessions as a JSON file.
// @Tags         Progress
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  ExportData
// @Failure      500     {object}  map[string]string
// @Router       /api/export/{userID} [get]
func (h *Handler) exportUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userID")
	if !authorize(w, r, userID) {
		return
	}

	stats, err := h.store.ListSubjectStats(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load stats for export", "user_id", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	sessions, err := h.store.ListSessions(ctx, store.SessionFilter{UserID: userID, Limit: store.MaxListLimit})
	if err != nil {
		h.logger.Error("failed to load sessions for export", "user_id", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load sessions")
		return
	}

	overall := newSubjectStatResponse(progress.Overall(userID, stats))
	overall.Subject = "all"

	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		UserID:     userID,
		Overall:    overall,
		Stats: lo.Map(stats, func(s progress.SubjectStat, _ int) SubjectStatResponse {
			return newSubjectStatResponse(s)
		}),
		Sessions: lo.Map(sessions, func(s *quiz.Session, _ int) SessionView {
			return newSessionView(s)
		}),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=learniz-export.json")
	json.NewEncoder(w).Encode(exportData)
}
