package dto

import "encoding/json"

// Field names mirror what the browser snippet and dashboard already send
// (camelCase), not the storage column names.

// TrackVisitorRequest is one visitor observation from the client snippet
type TrackVisitorRequest struct {
	VisitorID  string  `json:"visitorId" validate:"required,max=128"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	IPAddress  string  `json:"ipAddress,omitempty" validate:"omitempty,max=64"`
	Device     string  `json:"device,omitempty" validate:"omitempty,max=32"`
	UTMSource  *string `json:"utmSource,omitempty" validate:"omitempty,max=128"`
	TimeOnSite int64   `json:"timeOnSite,omitempty" validate:"omitempty,gte=0"`
	Converted  bool    `json:"converted,omitempty"`
}

// DeleteVisitorRequest identifies the visitor to erase
type DeleteVisitorRequest struct {
	VisitorID string `json:"visitorId" validate:"required,max=128"`
}

// UpdateSettingsRequest carries the tracking kill-switch flag. The value is
// kept raw so the handler can reject anything that is not a JSON boolean
// before touching the store.
type UpdateSettingsRequest struct {
	VisitorTrackingEnabled json.RawMessage `json:"visitorTrackingEnabled"`
}

// TrialCheckRequest asks whether the free trial was already consumed
type TrialCheckRequest struct {
	Email     string `json:"email" validate:"required,email"`
	IPAddress string `json:"ipAddress,omitempty" validate:"omitempty,max=64"`
}

// TrialClaimRequest consumes the free trial
type TrialClaimRequest struct {
	Email     string `json:"email" validate:"required,email"`
	IPAddress string `json:"ipAddress,omitempty" validate:"omitempty,max=64"`
}

// CreateOrderRequest starts a checkout for a plan
type CreateOrderRequest struct {
	Plan   string  `json:"plan" validate:"required,oneof=starter standard premium"`
	UserID *string `json:"userId,omitempty"`
}

// VerifyPaymentRequest carries the gateway callback evidence
type VerifyPaymentRequest struct {
	OrderID          string `json:"orderId" validate:"required"`
	GatewayOrderID   string `json:"gatewayOrderId" validate:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}
