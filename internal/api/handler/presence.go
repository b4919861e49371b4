// internal/api/handler/presence.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"points-ledger/internal/presence"
	"points-ledger/internal/util"
)

// PresenceHandler exposes the in-memory presence registry.
type PresenceHandler struct {
	tracker *presence.Tracker
	logger  *slog.Logger
}

// NewPresenceHandler creates a new PresenceHandler.
func NewPresenceHandler(tracker *presence.Tracker, logger *slog.Logger) *PresenceHandler {
	return &PresenceHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// OnlineUsers handles the monitoring read of currently active users.
// GET /api/onlineUsers
func (h *PresenceHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, h.logger, http.StatusOK, h.tracker.Snapshot())
}

// LogoutRequest represents the request body for logout.
type LogoutRequest struct {
	UserID int64 `json:"userId"`
}

// Logout handles the logout request. Logging out a user with no presence
// entry still succeeds.
// POST /api/logout
func (h *PresenceHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.UserID == 0 {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	h.tracker.Remove(req.UserID)
	respondWithJSON(w, h.logger, http.StatusOK, map[string]bool{"success": true})
}
