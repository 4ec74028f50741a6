package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/domain/trial"
	apperrors "github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
	"github.com/pawtrait-ai/backend/internal/pkg/validator"
)

// TrialHandler serves the free-trial gating endpoints
type TrialHandler struct {
	trials    trial.Service
	validator *validator.Validator
	logger    *logger.Logger
}

// NewTrialHandler creates a new trial handler
func NewTrialHandler(trials trial.Service, v *validator.Validator, log *logger.Logger) *TrialHandler {
	return &TrialHandler{trials: trials, validator: v, logger: log}
}

// Check handles POST /api/trial/check. A trial counts as used when EITHER
// the email or the ip matches an existing record.
func (h *TrialHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req dto.TrialCheckRequest
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

	used, err := h.trials.HasUsed(r.Context(), req.Email, ip)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to check trial status")
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.TrialCheckResponse{HasUsedFreeTrial: used})
}

// Claim handles POST /api/trial/claim
func (h *TrialHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req dto.TrialClaimRequest
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

	if _, err := h.trials.Claim(r.Context(), req.Email, ip); err != nil {
		var appErr *apperrors.AppError
		if stderrors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeTrialUsed {
			utils.WriteJSON(w, http.StatusForbidden, dto.TrialCheckResponse{
				HasUsedFreeTrial: true,
				Message:          appErr.Message,
			})
			return
		}
		writeServiceError(w, h.logger, err, "Failed to claim trial")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, dto.TrialCheckResponse{HasUsedFreeTrial: false})
}
