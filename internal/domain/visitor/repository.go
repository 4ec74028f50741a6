package visitor

import (
	"context"
	"time"
)

// Repository defines the visitor repository interface
type Repository interface {
	// Upsert inserts a visitor or, when a row with the same visitor_id
	// exists, updates its mutable fields and advances last_seen.
	Upsert(ctx context.Context, v *Visitor) error
	GetByVisitorID(ctx context.Context, visitorID string) (*Visitor, error)
	// DeleteByVisitorID removes every row for the identifier and returns
	// the number of rows deleted.
	DeleteByVisitorID(ctx context.Context, visitorID string) (int64, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Visitor, int64, error)
	// Stats aggregates over the full unfiltered visitor set.
	Stats(ctx context.Context, now time.Time) (*Stats, error)
	CountAll(ctx context.Context) (int64, error)
}

// Service defines the visitor service interface
type Service interface {
	// Record upserts a visitor observation; last_seen is stamped server-side.
	Record(ctx context.Context, v *Visitor) error
	// Forget hard-deletes all rows for the identifier (right-to-erasure)
	// and returns the number of rows removed.
	Forget(ctx context.Context, visitorID string) (int64, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Visitor, int64, *Stats, error)
	// Export returns all visitors matching the filter, unpaginated.
	Export(ctx context.Context, filter Filter) ([]*Visitor, error)
}
