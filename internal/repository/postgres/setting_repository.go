package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pawtrait-ai/backend/internal/domain/setting"
)

// SettingRepository implements setting.Repository backed by database/sql
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new settings repository
func NewSettingRepository(db *sql.DB) setting.Repository {
	return &SettingRepository{db: db}
}

// Get fetches one setting; returns setting.ErrNotFound when the row is absent
func (r *SettingRepository) Get(ctx context.Context, key string) (*setting.Setting, error) {
	defer observe("get", "admin_settings")()

	s := &setting.Setting{}
	err := r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM admin_settings WHERE key = $1`, key,
	).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, setting.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return s, nil
}

// Upsert writes the value for the key, creating the row if needed
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) (*setting.Setting, error) {
	defer observe("upsert", "admin_settings")()

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}

	return &setting.Setting{Key: key, Value: value, UpdatedAt: now}, nil
}
