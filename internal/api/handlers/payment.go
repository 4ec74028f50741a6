package handlers

import (
	"net/http"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/domain/order"
	apperrors "github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
	"github.com/pawtrait-ai/backend/internal/pkg/validator"
)

// PaymentHandler serves the checkout endpoints
type PaymentHandler struct {
	orders    order.Service
	validator *validator.Validator
	logger    *logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(orders order.Service, v *validator.Validator, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{orders: orders, validator: v, logger: log}
}

// CreateOrder handles POST /api/payment/orders
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}
	if verrs := h.validator.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, apperrors.ValidationError("Validation failed", verrs))
		return
	}

	payment, err := h.orders.CreateOrder(r.Context(), req.Plan, req.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create payment order")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, payment)
}

// Verify handles POST /api/payment/verify. A signature mismatch is a 400 and
// leaves the payment untouched.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}
	if verrs := h.validator.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, apperrors.ValidationError("Validation failed", verrs))
		return
	}

	payment, err := h.orders.VerifyPayment(r.Context(), req.OrderID, req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to verify payment")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, payment)
}
