package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
)

// fakeBackend records ingestion calls and serves a configurable status
type fakeBackend struct {
	mu       sync.Mutex
	status   string
	events   []map[string]interface{}
	deletes  []map[string]interface{}
	visitors []map[string]interface{}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tracking-status", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"status": f.status})
	})
	mux.HandleFunc("/api/analytics/track", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.events = append(f.events, body)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]string{"eventId": "e-1"}})
	})
	mux.HandleFunc("/api/track-visitor", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		if r.Method == http.MethodDelete {
			f.deletes = append(f.deletes, body)
		} else {
			f.visitors = append(f.visitors, body)
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})
	return mux
}

func newTestTracker(t *testing.T, backend *fakeBackend) (*Tracker, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	return New(Config{
		BaseURL:   server.URL,
		StatePath: filepath.Join(t.TempDir(), "state.json"),
	}), server
}

func TestEventSentWhenOnlineWithConsent(t *testing.T) {
	backend := &fakeBackend{status: "online"}
	tr, _ := newTestTracker(t, backend)
	tr.GrantConsent()

	res := tr.PageView(context.Background(), "/gallery")
	if !res.OK || res.Err != nil {
		t.Fatalf("result = %+v, want delivered", res)
	}

	if len(backend.events) != 1 {
		t.Fatalf("backend received %d events, want 1", len(backend.events))
	}
	e := backend.events[0]
	if e["event"] != "page_view" {
		t.Errorf("event = %v", e["event"])
	}
	if e["visitorId"] == "" || e["visitorId"] == nil {
		t.Error("event must carry the visitor id")
	}
	if e["path"] != "/gallery" {
		t.Errorf("path = %v", e["path"])
	}
}

func TestRemoteKillSwitchSuppressesSends(t *testing.T) {
	backend := &fakeBackend{status: "offline"}
	tr, _ := newTestTracker(t, backend)
	tr.GrantConsent()

	res := tr.Event(context.Background(), "generation", nil)
	if res.OK {
		t.Error("offline status must suppress the send")
	}
	if res.Err != nil {
		t.Errorf("suppression is not an error, got %v", res.Err)
	}
	if len(backend.events) != 0 {
		t.Errorf("backend received %d events, want 0", len(backend.events))
	}
}

func TestMissingConsentSuppressesSends(t *testing.T) {
	backend := &fakeBackend{status: "online"}
	tr, _ := newTestTracker(t, backend)

	if res := tr.Event(context.Background(), "page_view", nil); res.OK {
		t.Error("no consent must suppress the send")
	}
	if len(backend.events) != 0 {
		t.Errorf("backend received %d events, want 0", len(backend.events))
	}
}

func TestUnreachableStatusFailsClosed(t *testing.T) {
	backend := &fakeBackend{status: "online"}
	tr, server := newTestTracker(t, backend)
	tr.GrantConsent()
	server.Close()

	res := tr.Event(context.Background(), "page_view", nil)
	if res.OK || res.Err != nil {
		t.Errorf("unconfirmed status must suppress quietly, got %+v", res)
	}
}

func TestRevokeConsentIssuesErasure(t *testing.T) {
	backend := &fakeBackend{status: "online"}
	tr, _ := newTestTracker(t, backend)
	tr.GrantConsent()
	id := tr.Identity().VisitorID()

	if err := tr.RevokeConsent(context.Background()); err != nil {
		t.Fatalf("RevokeConsent: %v", err)
	}

	if len(backend.deletes) != 1 {
		t.Fatalf("backend received %d erasure requests, want 1", len(backend.deletes))
	}
	if backend.deletes[0]["visitorId"] != id {
		t.Errorf("erasure for %v, want %s", backend.deletes[0]["visitorId"], id)
	}

	// After revocation nothing is sent.
	if res := tr.Event(context.Background(), "page_view", nil); res.OK {
		t.Error("post-revocation events must be suppressed")
	}
}

func TestIdentifySendsVisitorObservation(t *testing.T) {
	backend := &fakeBackend{status: "online"}
	tr, _ := newTestTracker(t, backend)
	tr.GrantConsent()

	email := "pet@example.com"
	res := tr.Identify(context.Background(), VisitorInfo{Email: &email, Device: "mobile", TimeOnSite: 42})
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}
	if len(backend.visitors) != 1 {
		t.Fatalf("backend received %d visitor upserts, want 1", len(backend.visitors))
	}
	v := backend.visitors[0]
	if v["email"] != email || v["device"] != "mobile" {
		t.Errorf("visitor payload = %v", v)
	}
}
