package handlers

import (
	"net/http"

	"github.com/pawtrait-ai/backend/internal/domain/analytics"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
)

// defaultTopN bounds the popular styles/extras rankings
const defaultTopN = 10

// AnalyticsHandler serves the admin analytics bundle
type AnalyticsHandler struct {
	analytics analytics.Service
	logger    *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc analytics.Service, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc, logger: log}
}

// Summary handles GET /api/admin/analytics?days=N. Always HTTP 200: failed
// sections arrive zeroed, the rest populated.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)
	if days < 1 || days > 365 {
		days = 30
	}

	summary := h.analytics.Summary(r.Context(), days, defaultTopN)
	utils.WriteSuccess(w, http.StatusOK, summary)
}
