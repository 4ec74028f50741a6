package event

import "context"

// Repository defines the event repository interface
type Repository interface {
	Create(ctx context.Context, e *Event) error
}

// Service defines the event service interface
type Service interface {
	// Record inserts one immutable event row and returns its id.
	Record(ctx context.Context, e *Event) (string, error)
}
