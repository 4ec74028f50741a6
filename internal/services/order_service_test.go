package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pawtrait-ai/backend/internal/config"
	"github.com/pawtrait-ai/backend/internal/domain/order"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/testutil"
)

var testLog = logger.New(logger.Config{Level: "error", Format: "json"})

func TestCreateOrderReplacesPlaceholder(t *testing.T) {
	repo := &testutil.MockOrderRepository{}
	events := NewEventService(&testutil.MockEventRepository{}, testLog)

	var placeholderAtGatewayCall string
	gateway := func(ctx context.Context, amount int64, currency, receipt string) (string, error) {
		// The record must already exist with its placeholder id.
		placeholderAtGatewayCall = repo.Payments[0].GatewayOrderID
		return "order_issued", nil
	}

	svc := NewOrderService(repo, events, config.PaymentConfig{KeySecret: "s", Currency: "INR"}, gateway, testLog)

	p, err := svc.CreateOrder(context.Background(), "starter", nil)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !strings.HasPrefix(placeholderAtGatewayCall, order.PlaceholderPrefix) {
		t.Errorf("gateway saw order id %q, want a %s placeholder", placeholderAtGatewayCall, order.PlaceholderPrefix)
	}
	if p.GatewayOrderID != "order_issued" {
		t.Errorf("final gateway order id = %q", p.GatewayOrderID)
	}
	if repo.Payments[0].GatewayOrderID != "order_issued" {
		t.Errorf("stored gateway order id = %q", repo.Payments[0].GatewayOrderID)
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	repo := &testutil.MockOrderRepository{}
	events := NewEventService(&testutil.MockEventRepository{}, testLog)
	gateway := func(ctx context.Context, amount int64, currency, receipt string) (string, error) {
		return "", errors.New("gateway unreachable")
	}
	svc := NewOrderService(repo, events, config.PaymentConfig{KeySecret: "s", Currency: "INR"}, gateway, testLog)

	if _, err := svc.CreateOrder(context.Background(), "premium", nil); err == nil {
		t.Fatal("expected an error when the gateway is unreachable")
	}
	// The placeholder record stays behind; it never transitions to paid.
	if len(repo.Payments) != 1 || repo.Payments[0].Status != order.StatusCreated {
		t.Errorf("payments = %+v", repo.Payments)
	}
	if !strings.HasPrefix(repo.Payments[0].GatewayOrderID, order.PlaceholderPrefix) {
		t.Errorf("gateway order id = %q, placeholder must remain", repo.Payments[0].GatewayOrderID)
	}
}

func TestCreateOrderPlanAmounts(t *testing.T) {
	tests := []struct {
		plan   string
		amount int64
	}{
		{"starter", 49900},
		{"standard", 99900},
		{"premium", 199900},
	}

	for _, tt := range tests {
		t.Run(tt.plan, func(t *testing.T) {
			repo := &testutil.MockOrderRepository{}
			events := NewEventService(&testutil.MockEventRepository{}, testLog)
			gateway := func(ctx context.Context, amount int64, currency, receipt string) (string, error) {
				if amount != tt.amount {
					t.Errorf("gateway amount = %d, want %d", amount, tt.amount)
				}
				return "order_x", nil
			}
			svc := NewOrderService(repo, events, config.PaymentConfig{KeySecret: "s", Currency: "INR"}, gateway, testLog)

			p, err := svc.CreateOrder(context.Background(), tt.plan, nil)
			if err != nil {
				t.Fatalf("CreateOrder: %v", err)
			}
			if p.Amount != tt.amount {
				t.Errorf("amount = %d, want %d", p.Amount, tt.amount)
			}
		})
	}
}
