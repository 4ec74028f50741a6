package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestVisitorIDPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first := NewIdentity(path, 0)
	id := first.VisitorID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("visitor id %q is not a uuid: %v", id, err)
	}
	if first.Ephemeral() {
		t.Error("writable path must not degrade to ephemeral")
	}

	second := NewIdentity(path, 0)
	if got := second.VisitorID(); got != id {
		t.Errorf("reloaded id = %q, want %q", got, id)
	}
}

func TestVisitorIDDegradesToEphemeral(t *testing.T) {
	// A state path under a regular file cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	i := NewIdentity(filepath.Join(blocker, "nested", "state.json"), 0)

	id := i.VisitorID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("ephemeral id %q is not a uuid: %v", id, err)
	}
	if !i.Ephemeral() {
		t.Error("unwritable path must report ephemeral")
	}
	// The id stays stable for the session.
	if got := i.VisitorID(); got != id {
		t.Errorf("session id changed: %q != %q", got, id)
	}
}

func TestConsentLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	i := NewIdentity(path, 0)

	now := time.Now()
	if i.HasConsent(now) {
		t.Error("no decision must mean no consent")
	}

	if err := i.GrantConsent(); err != nil {
		t.Fatalf("GrantConsent: %v", err)
	}
	if !i.HasConsent(now) {
		t.Error("granted consent must hold")
	}

	// A decision older than the max age expires and requires a re-prompt.
	if i.HasConsent(now.Add(366 * 24 * time.Hour)) {
		t.Error("year-old consent must expire")
	}

	if err := i.RevokeConsent(); err != nil {
		t.Fatalf("RevokeConsent: %v", err)
	}
	if i.HasConsent(now) {
		t.Error("revoked consent must not hold")
	}

	// Revocation survives a reload.
	if NewIdentity(path, 0).HasConsent(now) {
		t.Error("revocation must persist")
	}
}
