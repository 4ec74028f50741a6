package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pawtrait-ai/backend/internal/services"
	"github.com/pawtrait-ai/backend/internal/testutil"
)

func newTrackingHandler(visitors *testutil.MockVisitorRepository, events *testutil.MockEventRepository) *TrackingHandler {
	return NewTrackingHandler(
		services.NewVisitorService(visitors, testLogger),
		services.NewEventService(events, testLogger),
		testValidator,
		testLogger,
	)
}

func TestTrackVisitor(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		upsertErr   error
		wantStatus  int
		wantSuccess bool
	}{
		{
			name:        "valid visitor",
			body:        `{"visitorId":"v-1","device":"mobile","timeOnSite":12}`,
			wantStatus:  http.StatusOK,
			wantSuccess: true,
		},
		{
			name:       "missing visitor id",
			body:       `{"device":"mobile"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"visitorId":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "storage failure is a soft failure",
			body:        `{"visitorId":"v-1"}`,
			upsertErr:   errors.New("connection refused"),
			wantStatus:  http.StatusOK,
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &testutil.MockVisitorRepository{UpsertErr: tt.upsertErr}
			h := newTrackingHandler(repo, &testutil.MockEventRepository{})

			req := httptest.NewRequest(http.MethodPost, "/api/track-visitor", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.TrackVisitor(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Success bool `json:"success"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Success != tt.wantSuccess {
					t.Errorf("success = %t, want %t", resp.Success, tt.wantSuccess)
				}
			}
		})
	}
}

func TestTrackVisitorStampsServerSideFields(t *testing.T) {
	repo := &testutil.MockVisitorRepository{}
	h := newTrackingHandler(repo, &testutil.MockEventRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/track-visitor", strings.NewReader(`{"visitorId":"v-9"}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	h.TrackVisitor(rec, req)

	if len(repo.Visitors) != 1 {
		t.Fatalf("stored %d visitors, want 1", len(repo.Visitors))
	}
	v := repo.Visitors[0]
	if v.IPAddress != "203.0.113.7" {
		t.Errorf("ip = %q, want first forwarded hop", v.IPAddress)
	}
	if v.Device != "unknown" {
		t.Errorf("device = %q, want unknown default", v.Device)
	}
	if v.LastSeen.IsZero() {
		t.Error("last_seen was not stamped")
	}
}

func TestDeleteVisitorRemovesOnlyMatchingID(t *testing.T) {
	repo := &testutil.MockVisitorRepository{}
	h := newTrackingHandler(repo, &testutil.MockEventRepository{})

	for _, id := range []string{"keep-me", "erase-me", "erase-me"} {
		req := httptest.NewRequest(http.MethodPost, "/api/track-visitor",
			strings.NewReader(`{"visitorId":"`+id+`"}`))
		h.TrackVisitor(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/track-visitor",
		strings.NewReader(`{"visitorId":"erase-me"}`))
	rec := httptest.NewRecorder()
	h.DeleteVisitor(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(repo.Visitors) != 1 || repo.Visitors[0].VisitorID != "keep-me" {
		t.Errorf("remaining visitors = %+v, want only keep-me", repo.Visitors)
	}
}

func TestTrackEvent(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		createErr   error
		wantStatus  int
		wantSuccess bool
	}{
		{
			name:        "valid event with metadata",
			body:        `{"event":"generation","userId":"u-1","style":"royal","background":"castle"}`,
			wantStatus:  http.StatusOK,
			wantSuccess: true,
		},
		{
			name:       "missing event type",
			body:       `{"userId":"u-1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "storage failure is a soft failure",
			body:        `{"event":"page_view"}`,
			createErr:   errors.New("disk full"),
			wantStatus:  http.StatusOK,
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &testutil.MockEventRepository{CreateErr: tt.createErr}
			h := newTrackingHandler(&testutil.MockVisitorRepository{}, events)

			req := httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.TrackEvent(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Success bool `json:"success"`
				}
				json.Unmarshal(rec.Body.Bytes(), &resp)
				if resp.Success != tt.wantSuccess {
					t.Errorf("success = %t, want %t", resp.Success, tt.wantSuccess)
				}
			}
		})
	}
}

func TestTrackEventLiftsKnownFields(t *testing.T) {
	events := &testutil.MockEventRepository{}
	h := newTrackingHandler(&testutil.MockVisitorRepository{}, events)

	body := `{"event":"generation","userId":"u-7","email":"pet@example.com","style":"royal"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(body))
	h.TrackEvent(httptest.NewRecorder(), req)

	if len(events.Events) != 1 {
		t.Fatalf("stored %d events, want 1", len(events.Events))
	}
	e := events.Events[0]
	if e.EventType != "generation" {
		t.Errorf("event_type = %q", e.EventType)
	}
	if e.UserID == nil || *e.UserID != "u-7" {
		t.Errorf("user_id = %v, want u-7", e.UserID)
	}
	if e.Metadata["style"] != "royal" {
		t.Errorf("metadata style = %v, want royal", e.Metadata["style"])
	}
	if _, ok := e.Metadata["userId"]; ok {
		t.Error("userId should be lifted out of metadata")
	}
}
