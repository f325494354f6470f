// internal/api/router.go
package api

import (
	"net/http"
)

// RegisterRoutes wires every endpoint onto mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /{$}", h.root)
	mux.HandleFunc("GET /health", h.health)

	// Tutoring
	mux.HandleFunc("POST /api/ask", h.ask)

	// Quizzes
	mux.HandleFunc("POST /api/quiz/answer", h.submitAnswer)
	mux.HandleFunc("GET /api/quiz/{quizID}", h.getQuiz)

	// Progress
	mux.HandleFunc("GET /api/progress/{userID}", h.listProgress)
	mux.HandleFunc("GET /api/stats/{userID}", h.listStats)
	mux.HandleFunc("GET /api/export/{userID}", h.exportUser)
}

// root godoc
// @Summary      Service banner
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Learniz API running"})
}

// health godoc
// @Summary      Health check
// @Description  Reports whether the service can reach its database.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
