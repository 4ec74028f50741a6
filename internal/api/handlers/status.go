package handlers

import (
	"net/http"

	"github.com/pawtrait-ai/backend/internal/domain/setting"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
)

// StatusHandler serves the public tracking kill-switch status
type StatusHandler struct {
	settings setting.Service
	logger   *logger.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(settings setting.Service, log *logger.Logger) *StatusHandler {
	return &StatusHandler{settings: settings, logger: log}
}

// TrackingStatus handles GET /api/tracking-status. Always HTTP 200: clients
// treat anything that is not a confirmed "online" as don't-track, so a store
// failure is reported as offline, never as an error.
func (h *StatusHandler) TrackingStatus(w http.ResponseWriter, r *http.Request) {
	status := h.settings.TrackingStatus(r.Context())
	utils.WriteJSON(w, http.StatusOK, status)
}
