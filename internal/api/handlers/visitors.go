package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/domain/visitor"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
)

// VisitorsHandler serves the admin visitor endpoints
type VisitorsHandler struct {
	visitors visitor.Service
	logger   *logger.Logger
}

// NewVisitorsHandler creates a new visitors handler
func NewVisitorsHandler(visitors visitor.Service, log *logger.Logger) *VisitorsHandler {
	return &VisitorsHandler{visitors: visitors, logger: log}
}

// List handles GET /api/admin/visitors
func (h *VisitorsHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := utils.ParsePaginationParams(r.URL.Query())
	filter := visitorFilterFromQuery(r)

	visitors, total, stats, err := h.visitors.List(r.Context(), filter, pagination.Limit, pagination.Offset)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list visitors")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.VisitorListResponse{
		Visitors: visitors,
		Stats:    stats,
		Pagination: dto.Pagination{
			Page:       pagination.Page,
			Limit:      pagination.Limit,
			TotalItems: total,
			TotalPages: utils.TotalPages(total, pagination.Limit),
		},
	})
}

// Export handles GET /api/admin/export-visitors. Streams all matching rows
// as a CSV attachment, unpaginated.
func (h *VisitorsHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter := visitorFilterFromQuery(r)

	visitors, err := h.visitors.Export(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to export visitors")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="visitors.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"Visitor ID", "Email", "IP Address", "Device", "Converted", "Last Seen"})
	for _, v := range visitors {
		email := ""
		if v.Email != nil {
			email = *v.Email
		}
		cw.Write([]string{
			v.VisitorID,
			email,
			v.IPAddress,
			v.Device,
			strconv.FormatBool(v.Converted),
			v.LastSeen.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.ErrorWithErr(err, "Failed to write visitor CSV")
	}
}

func visitorFilterFromQuery(r *http.Request) visitor.Filter {
	return visitor.Filter{
		Search:    r.URL.Query().Get("search"),
		Converted: boolQuery(r, "converted"),
		Device:    r.URL.Query().Get("device"),
	}
}
