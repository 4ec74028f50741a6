package handlers

import (
	"database/sql"
	"net/http"

	apperrors "github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: log}
}

// Live handles GET /healthz
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz; not ready until the database answers
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.ErrorWithErr(err, "Readiness check failed")
		utils.WriteError(w, apperrors.ServiceUnavailable("Database unavailable"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
