package dto

import (
	"github.com/pawtrait-ai/backend/internal/domain/order"
	"github.com/pawtrait-ai/backend/internal/domain/visitor"
)

// Pagination is the page descriptor attached to list responses
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// VisitorListResponse is the admin visitors page
type VisitorListResponse struct {
	Visitors   []*visitor.Visitor `json:"visitors"`
	Stats      *visitor.Stats     `json:"stats"`
	Pagination Pagination         `json:"pagination"`
}

// OrderListResponse is the admin orders page
type OrderListResponse struct {
	Orders     []*order.Order `json:"orders"`
	Stats      *order.Stats   `json:"stats"`
	Pagination Pagination     `json:"pagination"`
}

// SettingsResponse is the admin view of the tracking kill-switch
type SettingsResponse struct {
	VisitorTrackingEnabled bool `json:"visitorTrackingEnabled"`
}

// TrialCheckResponse reports trial availability. The same shape is used for
// the 403 conflict on claim, with Message explaining the refusal.
type TrialCheckResponse struct {
	HasUsedFreeTrial bool   `json:"hasUsedFreeTrial"`
	Message          string `json:"message,omitempty"`
}

// DeleteVisitorResponse reports how many rows the erasure removed
type DeleteVisitorResponse struct {
	Deleted int64 `json:"deleted"`
}

// TrackEventResponse acknowledges an ingested event
type TrackEventResponse struct {
	EventID string `json:"eventId"`
}
