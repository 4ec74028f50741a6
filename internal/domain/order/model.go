package order

import "time"

// Payment is one checkout attempt. It transitions created → paid only after
// gateway signature verification; abandonment is implicit (no transition).
type Payment struct {
	ID               string    `json:"id"`
	UserID           *string   `json:"user_id,omitempty"`
	Plan             string    `json:"plan"`
	Amount           int64     `json:"amount"` // minor currency units
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	GatewaySignature string    `json:"gateway_signature,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Order is a payment with the denormalized user email for the admin list.
type Order struct {
	Payment
	UserEmail string `json:"user_email"`
}

// Payment status values
const (
	StatusCreated = "created"
	StatusPaid    = "paid"
)

// PlaceholderPrefix marks a gateway order id that has not been issued yet.
// The record exists with this temporary id until the external order is
// created; the window is tolerated by design.
const PlaceholderPrefix = "pending_"

// Filter contains order list filters
type Filter struct {
	Search string // case-insensitive partial match on id, gateway ids, user email
	Status string
}

// Stats is the summary block computed over the full unfiltered order set
type Stats struct {
	TotalRevenue  int64   `json:"total_revenue"` // minor units, paid orders only
	AvgOrderValue float64 `json:"avg_order_value"`
	PaidCount     int64   `json:"paid_count"`
	TotalCount    int64   `json:"total_count"`
}
