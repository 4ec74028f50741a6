package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrait-ai/backend/internal/config"
	"github.com/pawtrait-ai/backend/internal/domain/event"
	"github.com/pawtrait-ai/backend/internal/domain/order"
	"github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/metrics"
)

// planAmounts maps plan tiers to prices in minor currency units.
var planAmounts = map[string]int64{
	"starter":  49900,
	"standard": 99900,
	"premium":  199900,
}

// GatewayOrderCreator issues an order at the payment gateway and returns its
// id. The gateway SDK sits behind this seam; tests substitute it.
type GatewayOrderCreator func(ctx context.Context, amount int64, currency, receipt string) (string, error)

// OrderService implements order.Service
type OrderService struct {
	repo          order.Repository
	events        event.Service
	cfg           config.PaymentConfig
	createGateway GatewayOrderCreator
	logger        *logger.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repo order.Repository, events event.Service, cfg config.PaymentConfig, createGateway GatewayOrderCreator, log *logger.Logger) order.Service {
	return &OrderService{
		repo:          repo,
		events:        events,
		cfg:           cfg,
		createGateway: createGateway,
		logger:        log,
	}
}

// CreateOrder creates the payment record first with a placeholder gateway
// order id, then patches in the real id once the gateway issues one. The
// two writes are separate; the placeholder window is tolerated by design.
func (s *OrderService) CreateOrder(ctx context.Context, plan string, userID *string) (*order.Payment, error) {
	amount, ok := planAmounts[plan]
	if !ok {
		return nil, errors.BadRequest("unknown plan: " + plan)
	}

	p := &order.Payment{
		ID:             uuid.New().String(),
		UserID:         userID,
		Plan:           plan,
		Amount:         amount,
		Currency:       s.cfg.Currency,
		Status:         order.StatusCreated,
		GatewayOrderID: order.PlaceholderPrefix + uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create payment record")
		return nil, err
	}
	metrics.RecordPayment(order.StatusCreated)

	gatewayOrderID, err := s.createGateway(ctx, p.Amount, p.Currency, p.ID)
	if err != nil {
		s.logger.ErrorWithErr(err, "Gateway order creation failed")
		return nil, errors.Internal("Failed to create payment order", err)
	}

	if err := s.repo.SetGatewayOrderID(ctx, p.ID, gatewayOrderID); err != nil {
		s.logger.ErrorWithErr(err, "Failed to record gateway order id")
		return nil, err
	}
	p.GatewayOrderID = gatewayOrderID

	s.logger.WithFields(map[string]interface{}{
		"payment_id":       p.ID,
		"plan":             plan,
		"gateway_order_id": gatewayOrderID,
	}).Info("Payment order created")

	return p, nil
}

// VerifyPayment checks the gateway signature and marks the payment paid.
// The signature is HMAC-SHA256 over "gateway_order_id|gateway_payment_id"
// keyed with the gateway secret, hex encoded.
func (s *OrderService) VerifyPayment(ctx context.Context, id, gatewayOrderID, gatewayPaymentID, signature string) (*order.Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("payment")
	}

	if p.GatewayOrderID != gatewayOrderID {
		return nil, errors.InvalidPaymentSignature()
	}

	mac := hmac.New(sha256.New, []byte(s.cfg.KeySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		s.logger.WithFields(map[string]interface{}{
			"payment_id": id,
		}).Warn("Payment signature mismatch")
		return nil, errors.InvalidPaymentSignature()
	}

	if err := s.repo.MarkPaid(ctx, id, gatewayPaymentID, signature); err != nil {
		s.logger.ErrorWithErr(err, "Failed to mark payment paid")
		return nil, err
	}
	metrics.RecordPayment(order.StatusPaid)

	// Audit trail is best-effort.
	if _, err := s.events.Record(ctx, &event.Event{
		EventType: event.TypePaymentPaid,
		UserID:    p.UserID,
		Metadata: map[string]interface{}{
			"payment_id":         id,
			"gateway_order_id":   gatewayOrderID,
			"gateway_payment_id": gatewayPaymentID,
			"amount":             p.Amount,
			"plan":               p.Plan,
		},
	}); err != nil {
		s.logger.ErrorWithErr(err, "Failed to append payment audit event")
	}

	p.Status = order.StatusPaid
	p.GatewayPaymentID = gatewayPaymentID
	p.GatewaySignature = signature
	return p, nil
}

// List returns one page plus the stats block over the unfiltered set
func (s *OrderService) List(ctx context.Context, filter order.Filter, limit, offset int) ([]*order.Order, int64, *order.Stats, error) {
	orders, total, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, nil, err
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to compute order stats")
		return nil, 0, nil, err
	}

	return orders, total, stats, nil
}
