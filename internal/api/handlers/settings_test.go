package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pawtrait-ai/backend/internal/domain/event"
	"github.com/pawtrait-ai/backend/internal/services"
	"github.com/pawtrait-ai/backend/internal/testutil"
)

func newSettingsFixture(settingRepo *testutil.MockSettingRepository, visitorRepo *testutil.MockVisitorRepository, eventRepo *testutil.MockEventRepository) (*SettingsHandler, *StatusHandler) {
	events := services.NewEventService(eventRepo, testLogger)
	svc := services.NewSettingService(settingRepo, visitorRepo, events, testLogger)
	return NewSettingsHandler(svc, testLogger), NewStatusHandler(svc, testLogger)
}

func TestUpdateSettingsRejectsNonBoolean(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"string value", `{"visitorTrackingEnabled":"true"}`},
		{"numeric value", `{"visitorTrackingEnabled":1}`},
		{"null value", `{"visitorTrackingEnabled":null}`},
		{"missing field", `{}`},
		{"object value", `{"visitorTrackingEnabled":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settingRepo := &testutil.MockSettingRepository{}
			eventRepo := &testutil.MockEventRepository{}
			h, _ := newSettingsFixture(settingRepo, &testutil.MockVisitorRepository{}, eventRepo)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/settings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Update(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if len(settingRepo.Settings) != 0 {
				t.Error("invalid input must not write to the store")
			}
			if len(eventRepo.Events) != 0 {
				t.Error("invalid input must not append audit events")
			}
		})
	}
}

func TestUpdateSettingsWritesFlagAndAuditEvent(t *testing.T) {
	settingRepo := &testutil.MockSettingRepository{}
	eventRepo := &testutil.MockEventRepository{}
	h, _ := newSettingsFixture(settingRepo, &testutil.MockVisitorRepository{}, eventRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/settings",
		strings.NewReader(`{"visitorTrackingEnabled":false}`))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	stored := settingRepo.Settings["visitor_tracking_enabled"]
	if stored == nil || stored.Value != "false" {
		t.Fatalf("stored setting = %+v, want value false", stored)
	}
	if len(eventRepo.Events) != 1 || eventRepo.Events[0].EventType != event.TypeSettingChanged {
		t.Fatalf("audit events = %+v, want one %s", eventRepo.Events, event.TypeSettingChanged)
	}
	meta := eventRepo.Events[0].Metadata
	if meta["new_value"] != "false" || meta["old_value"] != "unset" {
		t.Errorf("audit metadata = %v", meta)
	}
}

func TestTrackingStatus(t *testing.T) {
	tests := []struct {
		name       string
		getErr     error
		seed       string // stored flag value, "" for no row
		wantStatus string
	}{
		{"no row defaults to online", nil, "", "online"},
		{"disabled flag reports offline", nil, "false", "offline"},
		{"enabled flag reports online", nil, "true", "online"},
		{"store failure fails closed", errors.New("connection refused"), "", "offline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settingRepo := &testutil.MockSettingRepository{GetErr: tt.getErr}
			if tt.seed != "" {
				settingRepo.Upsert(context.Background(), "visitor_tracking_enabled", tt.seed)
			}
			visitorRepo := &testutil.MockVisitorRepository{}
			_, status := newSettingsFixture(settingRepo, visitorRepo, &testutil.MockEventRepository{})

			req := httptest.NewRequest(http.MethodGet, "/api/tracking-status", nil)
			rec := httptest.NewRecorder()
			status.TrackingStatus(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status endpoint must always answer 200, got %d", rec.Code)
			}
			var resp struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
		})
	}
}
