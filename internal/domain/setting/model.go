package setting

import (
	"context"
	"time"
)

// Setting is one {key, value} row of the generic admin settings table.
// Values are stored as strings; callers interpret them.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KeyVisitorTracking is the global tracking kill-switch, stored as
// "true"/"false" and defaulting to enabled when the row is absent.
const KeyVisitorTracking = "visitor_tracking_enabled"

// TrackingStatus is what the public status endpoint reports. Status is
// "offline" when tracking is disabled OR the store cannot be reached
// (fail-closed: clients treat unconfirmed status as don't-track).
type TrackingStatus struct {
	Status   string `json:"status"` // online | offline
	Visitors int64  `json:"visitors,omitempty"`
}

// Repository defines the settings repository interface
type Repository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, key, value string) (*Setting, error)
}

// ErrNotFound is returned by Get when no row exists for the key.
// Defined here so services can distinguish missing-row (use default) from
// store-unreachable (fail closed).
type notFoundError struct{}

func (notFoundError) Error() string { return "setting not found" }

// ErrNotFound is the sentinel for a missing setting row.
var ErrNotFound error = notFoundError{}

// Service defines the settings service interface
type Service interface {
	// TrackingStatus never returns an error: store failures degrade to
	// the offline status.
	TrackingStatus(ctx context.Context) *TrackingStatus
	TrackingEnabled(ctx context.Context) (bool, error)
	// SetTrackingEnabled upserts the flag and appends an immutable audit
	// event recording old/new value and the acting administrator.
	SetTrackingEnabled(ctx context.Context, enabled bool, actor string) (*Setting, error)
}
