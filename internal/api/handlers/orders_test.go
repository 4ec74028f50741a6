package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/config"
	"github.com/pawtrait-ai/backend/internal/domain/order"
	"github.com/pawtrait-ai/backend/internal/services"
	"github.com/pawtrait-ai/backend/internal/testutil"
)

func newOrdersHandler(repo *testutil.MockOrderRepository) *OrdersHandler {
	events := services.NewEventService(&testutil.MockEventRepository{}, testLogger)
	gateway := func(ctx context.Context, amount int64, currency, receipt string) (string, error) {
		return "order_test", nil
	}
	svc := services.NewOrderService(repo, events, config.PaymentConfig{KeySecret: "secret", Currency: "INR"}, gateway, testLogger)
	return NewOrdersHandler(svc, testLogger)
}

func TestOrderListPagination(t *testing.T) {
	repo := &testutil.MockOrderRepository{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		repo.Payments = append(repo.Payments, &order.Payment{
			ID:             fmt.Sprintf("p-%02d", i),
			Plan:           "starter",
			Amount:         49900,
			Currency:       "INR",
			Status:         order.StatusCreated,
			GatewayOrderID: fmt.Sprintf("order_%02d", i),
			CreatedAt:      base.Add(-time.Duration(i) * time.Minute),
			UpdatedAt:      base,
		})
	}
	h := newOrdersHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?page=2&limit=20", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data dto.OrderListResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Data.Orders) != 20 {
		t.Fatalf("page size = %d, want 20", len(resp.Data.Orders))
	}
	// Newest first; page 2 holds rows 21-40.
	if got := resp.Data.Orders[0].ID; got != "p-20" {
		t.Errorf("first row = %s, want p-20", got)
	}
	if got := resp.Data.Orders[19].ID; got != "p-39" {
		t.Errorf("last row = %s, want p-39", got)
	}
	if resp.Data.Pagination.TotalPages != 3 {
		t.Errorf("total_pages = %d, want 3", resp.Data.Pagination.TotalPages)
	}
}

func TestOrderListDefaultsUnknownEmail(t *testing.T) {
	userID := "u-1"
	repo := &testutil.MockOrderRepository{
		Payments: []*order.Payment{
			{ID: "p-1", UserID: &userID, Plan: "starter", Status: order.StatusPaid, CreatedAt: time.Now()},
			{ID: "p-2", Plan: "premium", Status: order.StatusCreated, CreatedAt: time.Now().Add(-time.Hour)},
		},
		EmailByUser: map[string]string{"u-1": "buyer@example.com"},
	}
	h := newOrdersHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	var resp struct {
		Data dto.OrderListResponse `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	if len(resp.Data.Orders) != 2 {
		t.Fatalf("rows = %d, want 2", len(resp.Data.Orders))
	}
	if resp.Data.Orders[0].UserEmail != "buyer@example.com" {
		t.Errorf("resolved email = %q", resp.Data.Orders[0].UserEmail)
	}
	if resp.Data.Orders[1].UserEmail != "Unknown" {
		t.Errorf("missing join should default to Unknown, got %q", resp.Data.Orders[1].UserEmail)
	}
}
