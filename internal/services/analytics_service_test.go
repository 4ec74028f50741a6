package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pawtrait-ai/backend/internal/testutil"
)

func TestSummaryAllSectionsFailing(t *testing.T) {
	boom := errors.New("store down")
	repo := &testutil.MockAnalyticsRepository{
		TotalsErr: boom, StylesErr: boom, ExtrasErr: boom,
		GenErr: boom, RevErr: boom, PlansErr: boom, VisitorErr: boom,
	}
	svc := NewAnalyticsService(repo, testLog)

	out := svc.Summary(context.Background(), 30, 10)
	if out == nil {
		t.Fatal("bundle must never be nil")
	}
	if out.Totals.Users != 0 || out.Visitors.Total != 0 {
		t.Errorf("failed sections must be zeroed: %+v", out)
	}
	// Slices stay empty, never nil, so the JSON shape is stable.
	if out.PopularStyles == nil || out.GenerationTrend == nil || out.PlanDistribution == nil {
		t.Error("sections must be empty slices, not null")
	}
	if out.Hint == "" {
		t.Error("zero users should carry the cold-start hint")
	}
}

func TestSummaryDefaultsWindow(t *testing.T) {
	svc := NewAnalyticsService(&testutil.MockAnalyticsRepository{}, testLog)

	out := svc.Summary(context.Background(), 0, 0)
	if out.Period != "Last 30 days" {
		t.Errorf("period = %q, want default window", out.Period)
	}
}
