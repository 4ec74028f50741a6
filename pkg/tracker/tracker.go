// Package tracker is the Go client for the visitor tracking API: stable
// visitor identity, consent management, and fire-and-forget telemetry.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SoftResult reports the outcome of a non-critical send. OK means delivered;
// a false OK with nil Err means the send was suppressed by the tracking gate.
// Callers on non-critical paths ignore it by contract.
type SoftResult struct {
	OK  bool
	Err error
}

// Config configures a Tracker
type Config struct {
	// BaseURL is the API root, e.g. "https://api.example.com".
	BaseURL string
	// StatePath is the identity/consent state file.
	StatePath string
	// StatusTTL caches the remote tracking status; default 1 minute.
	StatusTTL time.Duration
	// ConsentMaxAge overrides the consent validity window.
	ConsentMaxAge time.Duration
	// HTTPClient overrides the default client (5s timeout).
	HTTPClient *http.Client
}

// Tracker sends page views and events, gated by the remote kill-switch and
// local consent. Events are fire-and-forget with no ordering guarantee.
type Tracker struct {
	baseURL   string
	client    *http.Client
	identity  *Identity
	statusTTL time.Duration

	mu            sync.Mutex
	statusChecked time.Time
	statusEnabled bool
}

// New creates a tracker
func New(cfg Config) *Tracker {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	ttl := cfg.StatusTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Tracker{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    client,
		identity:  NewIdentity(cfg.StatePath, cfg.ConsentMaxAge),
		statusTTL: ttl,
	}
}

// Identity exposes the underlying identity store
func (t *Tracker) Identity() *Identity {
	return t.identity
}

// GrantConsent records consent locally
func (t *Tracker) GrantConsent() error {
	return t.identity.GrantConsent()
}

// RevokeConsent revokes consent locally and asks the server to erase the
// visitor's data.
func (t *Tracker) RevokeConsent(ctx context.Context) error {
	if err := t.identity.RevokeConsent(); err != nil {
		return err
	}

	body, _ := json.Marshal(map[string]string{"visitorId": t.identity.VisitorID()})
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.baseURL+"/api/track-visitor", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("erasure request failed: %s", resp.Status)
	}
	return nil
}

// PageView reports a page view
func (t *Tracker) PageView(ctx context.Context, path string) SoftResult {
	return t.Event(ctx, "page_view", map[string]interface{}{"path": path})
}

// Event reports one telemetry event. The remote status is consulted first
// (cached for the configured TTL), then local consent; suppressed sends
// return {OK:false, Err:nil}.
func (t *Tracker) Event(ctx context.Context, eventType string, metadata map[string]interface{}) SoftResult {
	if !ShouldTrack(t.remoteEnabled(ctx), t.identity.HasConsent(time.Now())) {
		return SoftResult{}
	}

	payload := map[string]interface{}{
		"event":     eventType,
		"visitorId": t.identity.VisitorID(),
	}
	for k, v := range metadata {
		if k == "event" || k == "visitorId" {
			continue
		}
		payload[k] = v
	}

	return t.post(ctx, "/api/analytics/track", payload)
}

// VisitorInfo is an identity observation sent alongside events
type VisitorInfo struct {
	Email      *string
	Device     string
	UTMSource  *string
	TimeOnSite int64
	Converted  bool
}

// Identify upserts the visitor record on the server
func (t *Tracker) Identify(ctx context.Context, info VisitorInfo) SoftResult {
	if !ShouldTrack(t.remoteEnabled(ctx), t.identity.HasConsent(time.Now())) {
		return SoftResult{}
	}

	payload := map[string]interface{}{
		"visitorId":  t.identity.VisitorID(),
		"device":     info.Device,
		"timeOnSite": info.TimeOnSite,
		"converted":  info.Converted,
	}
	if info.Email != nil {
		payload["email"] = *info.Email
	}
	if info.UTMSource != nil {
		payload["utmSource"] = *info.UTMSource
	}

	return t.post(ctx, "/api/track-visitor", payload)
}

// remoteEnabled consults the server kill-switch, cached per TTL. Any failure
// to confirm "online" counts as disabled.
func (t *Tracker) remoteEnabled(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if time.Since(t.statusChecked) < t.statusTTL {
		return t.statusEnabled
	}

	t.statusChecked = time.Now()
	t.statusEnabled = false

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/api/tracking-status", nil)
	if err != nil {
		return false
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false
	}

	t.statusEnabled = status.Status == "online"
	return t.statusEnabled
}

func (t *Tracker) post(ctx context.Context, path string, payload map[string]interface{}) SoftResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return SoftResult{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return SoftResult{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return SoftResult{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SoftResult{Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	var ack struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return SoftResult{Err: err}
	}
	if !ack.Success {
		return SoftResult{Err: fmt.Errorf("server rejected event: %s", ack.Message)}
	}
	return SoftResult{OK: true}
}
