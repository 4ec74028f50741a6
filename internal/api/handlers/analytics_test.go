package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pawtrait-ai/backend/internal/domain/analytics"
	"github.com/pawtrait-ai/backend/internal/services"
	"github.com/pawtrait-ai/backend/internal/testutil"
)

func TestAnalyticsSummaryPartialFailure(t *testing.T) {
	repo := &testutil.MockAnalyticsRepository{
		TotalsResult:  analytics.Totals{Users: 12, TotalGenerations: 88, TotalRevenue: 149700},
		StylesErr:     errors.New("query timeout"),
		ExtrasResult:  []analytics.ItemCount{{Name: "castle", Count: 5}},
		GenTrend:      []analytics.DayCount{{Date: "2026-03-01", Count: 3}},
		RevTrend:      []analytics.DayRevenue{{Date: "2026-03-01", Revenue: 49900}},
		Plans:         []analytics.PlanCount{{Plan: "starter", Count: 2}},
		VisitorResult: analytics.VisitorSummary{Total: 40, UniqueLast24h: 7},
	}
	h := NewAnalyticsHandler(services.NewAnalyticsService(repo, testLogger), testLogger)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics?days=7", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("one failing metric must not fail the bundle, got %d", rec.Code)
	}

	var resp struct {
		Data analytics.Summary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Data.Period != "Last 7 days" {
		t.Errorf("period = %q", resp.Data.Period)
	}
	if len(resp.Data.PopularStyles) != 0 {
		t.Errorf("failed metric must be zeroed, got %v", resp.Data.PopularStyles)
	}
	if resp.Data.Totals.Users != 12 {
		t.Errorf("totals = %+v, other metrics must survive", resp.Data.Totals)
	}
	if len(resp.Data.PopularExtras) != 1 || len(resp.Data.GenerationTrend) != 1 ||
		len(resp.Data.RevenueTrend) != 1 || len(resp.Data.PlanDistribution) != 1 {
		t.Error("unaffected sections must populate")
	}
	if resp.Data.Visitors.Total != 40 {
		t.Errorf("visitor summary = %+v", resp.Data.Visitors)
	}
	if resp.Data.Hint != "" {
		t.Errorf("no cold-start hint expected with users > 0, got %q", resp.Data.Hint)
	}
}

func TestAnalyticsSummaryColdStartHint(t *testing.T) {
	repo := &testutil.MockAnalyticsRepository{}
	h := NewAnalyticsHandler(services.NewAnalyticsService(repo, testLogger), testLogger)

	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil))

	var resp struct {
		Data analytics.Summary `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	if resp.Data.Period != "Last 30 days" {
		t.Errorf("default period = %q, want Last 30 days", resp.Data.Period)
	}
	if resp.Data.Hint == "" {
		t.Error("empty platform should produce the cold-start hint")
	}
}
