package event

import "time"

// Event is one append-only user event row. Events are never mutated after
// insert; they back both product analytics and the admin audit trail.
type Event struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	UserID    *string                `json:"user_id,omitempty"`
	Email     *string                `json:"email,omitempty"`
	IPAddress string                 `json:"ip_address"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Well-known event types
const (
	TypePageView       = "page_view"
	TypeSignup         = "signup"
	TypeGeneration     = "generation"
	TypeSettingChanged = "admin_setting_changed"
	TypePaymentPaid    = "payment_verified"
)
