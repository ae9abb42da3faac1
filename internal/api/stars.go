package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/flowfind/flowfind/internal/stars"
)

// StarService is the star store surface the handlers consume.
type StarService interface {
	Add(ctx context.Context, ip, sessionID, userAgent string) (bool, int64, error)
	Count(ctx context.Context) (int64, error)
	HasStarred(ctx context.Context, ip, sessionID string) (bool, error)
}

// StarsHandler serves the star counter endpoints.
type StarsHandler struct {
	stars      StarService
	trustProxy bool
	logger     *slog.Logger
}

// NewStarsHandler creates a stars handler.
func NewStarsHandler(s StarService, trustProxy bool, logger *slog.Logger) *StarsHandler {
	return &StarsHandler{stars: s, trustProxy: trustProxy, logger: logger}
}

// RegisterRoutes registers star routes on the given mux.
func (h *StarsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/stars", h.handleAdd)
	mux.HandleFunc("GET /api/stars", h.handleCount)
	mux.HandleFunc("GET /api/stars/check", h.handleCheck)
}

type addStarRequest struct {
	SessionID string `json:"session_id"`
	UserAgent string `json:"user_agent"`
}

type addStarResponse struct {
	Added bool  `json:"added"`
	Count int64 `json:"count"`
}

func (h *StarsHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addStarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON", h.logger)
		return
	}

	added, count, err := h.stars.Add(r.Context(), clientIP(r, h.trustProxy), req.SessionID, req.UserAgent)
	if err != nil {
		h.writeStarError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addStarResponse{Added: added, Count: count}, h.logger)
}

func (h *StarsHandler) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.stars.Count(r.Context())
	if err != nil {
		h.writeStarError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count}, h.logger)
}

func (h *StarsHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	starred, err := h.stars.HasStarred(r.Context(), clientIP(r, h.trustProxy), sessionID)
	if err != nil {
		h.writeStarError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"starred": starred}, h.logger)
}

func (h *StarsHandler) writeStarError(w http.ResponseWriter, err error) {
	if errors.Is(err, stars.ErrInvalidSession) {
		writeError(w, http.StatusBadRequest, "invalid_session", "session_id must be a UUID", h.logger)
		return
	}
	h.logger.Error("star operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "star_failed", "star operation failed", h.logger)
}
