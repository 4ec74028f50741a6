package order

import "context"

// Repository defines the payment repository interface
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	// SetGatewayOrderID replaces the placeholder id once the external
	// order has been created.
	SetGatewayOrderID(ctx context.Context, id, gatewayOrderID string) error
	// MarkPaid records the gateway payment id and signature and moves the
	// payment to the paid state.
	MarkPaid(ctx context.Context, id, gatewayPaymentID, gatewaySignature string) error
	// List returns orders with the denormalized user email per record
	// ("Unknown" when the join misses).
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Order, int64, error)
	// Stats aggregates over the full unfiltered order set.
	Stats(ctx context.Context) (*Stats, error)
}

// Service defines the payment service interface
type Service interface {
	// CreateOrder creates a payment for the plan with a placeholder gateway
	// order id, then records the issued gateway id.
	CreateOrder(ctx context.Context, plan string, userID *string) (*Payment, error)
	// VerifyPayment checks the gateway signature and transitions the
	// payment to paid. An invalid signature leaves the record untouched.
	VerifyPayment(ctx context.Context, id, gatewayOrderID, gatewayPaymentID, signature string) (*Payment, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Order, int64, *Stats, error)
}
