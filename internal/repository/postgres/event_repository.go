package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pawtrait-ai/backend/internal/domain/event"
)

// EventRepository implements event.Repository backed by database/sql
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) event.Repository {
	return &EventRepository{db: db}
}

// Create inserts one immutable event row. Metadata is stored as JSON text.
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	defer observe("insert", "user_events")()

	metadata := "{}"
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode event metadata: %w", err)
		}
		metadata = string(raw)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_events (id, event_type, user_id, email, ip_address, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.EventType, e.UserID, e.Email, e.IPAddress, metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}
