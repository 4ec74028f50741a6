package handlers

import (
	"bytes"
	"net/http"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/domain/setting"
	apperrors "github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
)

// SettingsHandler serves the admin settings endpoints
type SettingsHandler struct {
	settings setting.Service
	logger   *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings setting.Service, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: log}
}

// Get handles GET /api/admin/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.settings.TrackingEnabled(r.Context())
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to read settings")
		utils.WriteError(w, apperrors.ServiceUnavailable("Settings are temporarily unavailable"))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.SettingsResponse{VisitorTrackingEnabled: enabled})
}

// Update handles POST /api/admin/settings. The flag must be a JSON boolean:
// strings like "true", numbers, or null are rejected before any write, so an
// invalid request can never flip the kill-switch.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	raw := string(bytes.TrimSpace(req.VisitorTrackingEnabled))
	if raw != "true" && raw != "false" {
		utils.WriteError(w, apperrors.BadRequest("visitorTrackingEnabled must be a boolean"))
		return
	}
	enabled := raw == "true"

	if _, err := h.settings.SetTrackingEnabled(r.Context(), enabled, "admin"); err != nil {
		writeServiceError(w, h.logger, err, "Failed to update settings")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.SettingsResponse{VisitorTrackingEnabled: enabled})
}
