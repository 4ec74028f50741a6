package tracker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultConsentMaxAge is how long a consent decision stays valid before the
// user must be asked again.
const DefaultConsentMaxAge = 365 * 24 * time.Hour

// consentState is the persisted consent decision
type consentState struct {
	Granted bool      `json:"granted"`
	At      time.Time `json:"at"`
}

// identityState is the JSON document in the state file
type identityState struct {
	VisitorID string        `json:"visitor_id"`
	Consent   *consentState `json:"consent,omitempty"`
}

// Identity manages the persistent visitor id and consent decision. When the
// state file cannot be written the identity degrades to an explicit
// session-only mode instead of handing out corrupt or empty ids.
type Identity struct {
	path          string
	consentMaxAge time.Duration

	mu        sync.Mutex
	state     identityState
	loaded    bool
	ephemeral bool
}

// NewIdentity creates an identity store backed by the given file path
func NewIdentity(path string, consentMaxAge time.Duration) *Identity {
	if consentMaxAge <= 0 {
		consentMaxAge = DefaultConsentMaxAge
	}
	return &Identity{path: path, consentMaxAge: consentMaxAge}
}

// VisitorID returns the stable visitor id, generating and persisting one on
// first use. The id is a v4 UUID (122 bits of randomness).
func (i *Identity) VisitorID() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.load()
	if i.state.VisitorID == "" {
		i.state.VisitorID = uuid.New().String()
		i.persist()
	}
	return i.state.VisitorID
}

// Ephemeral reports whether the identity could not be persisted and lives
// only for this session.
func (i *Identity) Ephemeral() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.ephemeral
}

// GrantConsent records a consent grant
func (i *Identity) GrantConsent() error {
	return i.setConsent(true)
}

// RevokeConsent records a consent revocation
func (i *Identity) RevokeConsent() error {
	return i.setConsent(false)
}

// HasConsent reports whether consent is currently granted. A decision older
// than the max age no longer counts; the user must be asked again.
func (i *Identity) HasConsent(now time.Time) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.load()
	c := i.state.Consent
	if c == nil || !c.Granted {
		return false
	}
	return now.Sub(c.At) <= i.consentMaxAge
}

func (i *Identity) setConsent(granted bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.load()
	i.state.Consent = &consentState{Granted: granted, At: time.Now().UTC()}
	return i.persist()
}

// load reads the state file once. A missing or unreadable file just means a
// fresh state.
func (i *Identity) load() {
	if i.loaded {
		return
	}
	i.loaded = true

	raw, err := os.ReadFile(i.path)
	if err != nil {
		return
	}
	var state identityState
	if err := json.Unmarshal(raw, &state); err != nil {
		return
	}
	i.state = state
}

func (i *Identity) persist() error {
	raw, err := json.Marshal(i.state)
	if err != nil {
		i.ephemeral = true
		return err
	}
	if err := os.MkdirAll(filepath.Dir(i.path), 0o755); err != nil {
		i.ephemeral = true
		return err
	}
	if err := os.WriteFile(i.path, raw, 0o600); err != nil {
		i.ephemeral = true
		return err
	}
	i.ephemeral = false
	return nil
}
