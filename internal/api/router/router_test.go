package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pawtrait-ai/backend/internal/api/handlers"
	"github.com/pawtrait-ai/backend/internal/config"
	"github.com/pawtrait-ai/backend/internal/domain/visitor"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/validator"
	"github.com/pawtrait-ai/backend/internal/services"
	"github.com/pawtrait-ai/backend/internal/testutil"
)

const testAdminKey = "test-admin-key"

// countingVisitorRepo records whether any repository method ran, to prove
// auth failures short-circuit before storage.
type countingVisitorRepo struct {
	*testutil.MockVisitorRepository
	calls int
}

func (c *countingVisitorRepo) List(ctx context.Context, filter visitor.Filter, limit, offset int) ([]*visitor.Visitor, int64, error) {
	c.calls++
	return c.MockVisitorRepository.List(ctx, filter, limit, offset)
}

func (c *countingVisitorRepo) Stats(ctx context.Context, now time.Time) (*visitor.Stats, error) {
	c.calls++
	return c.MockVisitorRepository.Stats(ctx, now)
}

func newTestRouter(t *testing.T) (http.Handler, *countingVisitorRepo) {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	v := validator.New()

	visitorRepo := &countingVisitorRepo{MockVisitorRepository: &testutil.MockVisitorRepository{}}
	eventRepo := &testutil.MockEventRepository{}
	settingRepo := &testutil.MockSettingRepository{}
	trialRepo := &testutil.MockTrialRepository{}
	orderRepo := &testutil.MockOrderRepository{}
	analyticsRepo := &testutil.MockAnalyticsRepository{}

	eventSvc := services.NewEventService(eventRepo, log)
	visitorSvc := services.NewVisitorService(visitorRepo, log)
	settingSvc := services.NewSettingService(settingRepo, visitorRepo, eventSvc, log)
	trialSvc := services.NewTrialService(trialRepo, log)
	analyticsSvc := services.NewAnalyticsService(analyticsRepo, log)
	orderSvc := services.NewOrderService(orderRepo, eventSvc,
		config.PaymentConfig{KeyID: "k", KeySecret: "s", Currency: "INR"},
		func(ctx context.Context, amount int64, currency, receipt string) (string, error) {
			return "order_test", nil
		}, log)

	cfg := &config.Config{}
	cfg.Server.FrontendURL = "http://localhost:3000"
	cfg.Admin.APIKey = testAdminKey

	h := New(cfg, log, Handlers{
		Health:    handlers.NewHealthHandler(nil, log),
		Tracking:  handlers.NewTrackingHandler(visitorSvc, eventSvc, v, log),
		Status:    handlers.NewStatusHandler(settingSvc, log),
		Settings:  handlers.NewSettingsHandler(settingSvc, log),
		Analytics: handlers.NewAnalyticsHandler(analyticsSvc, log),
		Visitors:  handlers.NewVisitorsHandler(visitorSvc, log),
		Orders:    handlers.NewOrdersHandler(orderSvc, log),
		Trial:     handlers.NewTrialHandler(trialSvc, v, log),
		Payment:   handlers.NewPaymentHandler(orderSvc, v, log),
	})
	return h, visitorRepo
}

func TestAdminAuthGuardsEveryAdminRoute(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/analytics"},
		{http.MethodGet, "/api/admin/visitors"},
		{http.MethodGet, "/api/admin/export-visitors"},
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodGet, "/api/admin/settings"},
		{http.MethodPost, "/api/admin/settings"},
	}

	auth := []struct {
		name   string
		header string
		want   int
	}{
		{"no credential", "", http.StatusUnauthorized},
		{"wrong credential", "Bearer wrong-key", http.StatusUnauthorized},
		{"malformed header", testAdminKey, http.StatusUnauthorized},
	}

	for _, route := range routes {
		for _, a := range auth {
			t.Run(route.path+" "+a.name, func(t *testing.T) {
				handler, repo := newTestRouter(t)

				req := httptest.NewRequest(route.method, route.path, nil)
				if a.header != "" {
					req.Header.Set("Authorization", a.header)
				}
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)

				if rec.Code != a.want {
					t.Fatalf("status = %d, want %d", rec.Code, a.want)
				}
				if repo.calls != 0 {
					t.Errorf("repository was reached %d times before auth", repo.calls)
				}
			})
		}
	}
}

func TestAdminAuthAcceptsValidKey(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/visitors", nil)
	req.Header.Set("Authorization", "Bearer "+testAdminKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestPublicRoutesNeedNoCredential(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tracking-status", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d, want 200", rec.Code)
	}
}
