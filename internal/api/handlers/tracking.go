package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/domain/event"
	"github.com/pawtrait-ai/backend/internal/domain/visitor"
	apperrors "github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/metrics"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
	"github.com/pawtrait-ai/backend/internal/pkg/validator"
)

// TrackingHandler serves the public ingestion endpoints. Persistence failures
// on these paths are reported as HTTP 200 soft failures: telemetry must never
// break the caller's page.
type TrackingHandler struct {
	visitors  visitor.Service
	events    event.Service
	validator *validator.Validator
	logger    *logger.Logger
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(visitors visitor.Service, events event.Service, v *validator.Validator, log *logger.Logger) *TrackingHandler {
	return &TrackingHandler{
		visitors:  visitors,
		events:    events,
		validator: v,
		logger:    log,
	}
}

// TrackVisitor handles POST /api/track-visitor
func (h *TrackingHandler) TrackVisitor(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackVisitorRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}
	if verrs := h.validator.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, apperrors.ValidationError("Validation failed", verrs))
		return
	}

	ip := req.IPAddress
	if ip == "" {
		ip = clientIP(r)
	}

	v := &visitor.Visitor{
		ID:         uuid.New().String(),
		VisitorID:  req.VisitorID,
		Email:      req.Email,
		IPAddress:  ip,
		Device:     req.Device,
		UTMSource:  req.UTMSource,
		TimeOnSite: req.TimeOnSite,
		Converted:  req.Converted,
	}

	if err := h.visitors.Record(r.Context(), v); err != nil {
		metrics.RecordVisitorUpsert("failed")
		utils.WriteSoftFail(w, "Failed to record visitor")
		return
	}

	metrics.RecordVisitorUpsert("ok")
	utils.WriteSuccess(w, http.StatusOK, nil)
}

// DeleteVisitor handles DELETE /api/track-visitor (right-to-erasure)
func (h *TrackingHandler) DeleteVisitor(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteVisitorRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}
	if verrs := h.validator.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, apperrors.ValidationError("Validation failed", verrs))
		return
	}

	deleted, err := h.visitors.Forget(r.Context(), req.VisitorID)
	if err != nil {
		// Erasure is a rights operation, not telemetry: hard-fail so the
		// client retries.
		writeServiceError(w, h.logger, err, "Failed to delete visitor data")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.DeleteVisitorResponse{Deleted: deleted})
}

// TrackEvent handles POST /api/analytics/track. Known fields are lifted out
// of the body; everything else rides along as metadata.
func (h *TrackingHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeJSON(r, &body); err != nil {
		utils.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	eventType, _ := body["event"].(string)
	if eventType == "" {
		utils.WriteError(w, apperrors.BadRequest("event is required"))
		return
	}

	e := &event.Event{
		EventType: eventType,
		IPAddress: clientIP(r),
		Metadata:  map[string]interface{}{},
	}
	if userID, ok := body["userId"].(string); ok && userID != "" {
		e.UserID = &userID
	}
	if email, ok := body["email"].(string); ok && email != "" {
		e.Email = &email
	}
	for key, value := range body {
		switch key {
		case "event", "userId", "email":
		default:
			e.Metadata[key] = value
		}
	}

	id, err := h.events.Record(r.Context(), e)
	if err != nil {
		metrics.RecordEventIngested(eventType, "failed")
		utils.WriteSoftFail(w, "Failed to record event")
		return
	}

	metrics.RecordEventIngested(eventType, "ok")
	utils.WriteSuccess(w, http.StatusOK, dto.TrackEventResponse{EventID: id})
}
