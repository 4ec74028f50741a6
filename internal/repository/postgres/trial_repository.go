package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pawtrait-ai/backend/internal/domain/trial"
)

// TrialRepository implements trial.Repository backed by database/sql
type TrialRepository struct {
	db *sql.DB
}

// NewTrialRepository creates a new trial repository
func NewTrialRepository(db *sql.DB) trial.Repository {
	return &TrialRepository{db: db}
}

// ExistsByEmailOrIP reports whether any trial matches the email OR the ip.
// The OR is deliberate: either signal alone marks the entitlement consumed.
func (r *TrialRepository) ExistsByEmailOrIP(ctx context.Context, email, ipAddress string) (bool, error) {
	defer observe("exists", "trials")()

	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trials WHERE email = $1 OR ip_address = $2`,
		email, ipAddress,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check trial usage: %w", err)
	}
	return count > 0, nil
}

// Create inserts one trial consumption record
func (r *TrialRepository) Create(ctx context.Context, t *trial.Trial) error {
	defer observe("insert", "trials")()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trials (id, email, ip_address, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Email, t.IPAddress, t.EmailVerified, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trial: %w", err)
	}
	return nil
}
