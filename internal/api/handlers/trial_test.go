package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/domain/trial"
	"github.com/pawtrait-ai/backend/internal/services"
	"github.com/pawtrait-ai/backend/internal/testutil"
)

func newTrialHandler(repo *testutil.MockTrialRepository) *TrialHandler {
	return NewTrialHandler(services.NewTrialService(repo, testLogger), testValidator, testLogger)
}

func TestTrialCheckMatchesEmailOrIP(t *testing.T) {
	repo := &testutil.MockTrialRepository{Trials: []*trial.Trial{
		{ID: "t-1", Email: "used@example.com", IPAddress: "198.51.100.9"},
	}}
	h := newTrialHandler(repo)

	tests := []struct {
		name     string
		body     string
		wantUsed bool
	}{
		{"same email different ip", `{"email":"used@example.com","ipAddress":"203.0.113.1"}`, true},
		{"different email same ip", `{"email":"new@example.com","ipAddress":"198.51.100.9"}`, true},
		{"neither matches", `{"email":"new@example.com","ipAddress":"203.0.113.1"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/trial/check", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Check(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var resp dto.TrialCheckResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.HasUsedFreeTrial != tt.wantUsed {
				t.Errorf("hasUsedFreeTrial = %t, want %t", resp.HasUsedFreeTrial, tt.wantUsed)
			}
		})
	}
}

func TestTrialClaim(t *testing.T) {
	repo := &testutil.MockTrialRepository{}
	h := newTrialHandler(repo)

	body := `{"email":"first@example.com","ipAddress":"203.0.113.1"}`
	rec := httptest.NewRecorder()
	h.Claim(rec, httptest.NewRequest(http.MethodPost, "/api/trial/claim", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first claim status = %d, want 201", rec.Code)
	}
	if len(repo.Trials) != 1 {
		t.Fatalf("stored %d trials, want 1", len(repo.Trials))
	}

	// Second claim from the same ip with a fresh email is still blocked.
	rec = httptest.NewRecorder()
	body = `{"email":"second@example.com","ipAddress":"203.0.113.1"}`
	h.Claim(rec, httptest.NewRequest(http.MethodPost, "/api/trial/claim", strings.NewReader(body)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("repeat claim status = %d, want 403", rec.Code)
	}
	var resp dto.TrialCheckResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.HasUsedFreeTrial || resp.Message == "" {
		t.Errorf("conflict body = %+v, want hasUsedFreeTrial true with message", resp)
	}
	if len(repo.Trials) != 1 {
		t.Errorf("conflict must not create another record, have %d", len(repo.Trials))
	}
}

func TestTrialCheckValidation(t *testing.T) {
	h := newTrialHandler(&testutil.MockTrialRepository{})

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodPost, "/api/trial/check", strings.NewReader(`{"email":"not-an-email"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
