package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pawtrait-ai/backend/internal/domain/visitor"
	"github.com/pawtrait-ai/backend/internal/pkg/metrics"
)

// VisitorRepository implements visitor.Repository backed by database/sql
type VisitorRepository struct {
	db *sql.DB
}

// NewVisitorRepository creates a new visitor repository
func NewVisitorRepository(db *sql.DB) visitor.Repository {
	return &VisitorRepository{db: db}
}

const visitorColumns = `id, visitor_id, email, ip_address, device, utm_source, time_on_site, converted, created_at, last_seen`

// Upsert inserts a row keyed by visitor_id or folds the observation into the
// existing one. Time on site accumulates, converted latches once true, and
// last_seen never moves backwards.
func (r *VisitorRepository) Upsert(ctx context.Context, v *visitor.Visitor) error {
	defer observe("upsert", "visitors")()

	query := `
		INSERT INTO visitors (id, visitor_id, email, ip_address, device, utm_source, time_on_site, converted, created_at, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (visitor_id) DO UPDATE SET
			email = COALESCE(excluded.email, visitors.email),
			ip_address = excluded.ip_address,
			device = excluded.device,
			utm_source = COALESCE(excluded.utm_source, visitors.utm_source),
			time_on_site = visitors.time_on_site + excluded.time_on_site,
			converted = visitors.converted OR excluded.converted,
			last_seen = CASE WHEN excluded.last_seen > visitors.last_seen
				THEN excluded.last_seen ELSE visitors.last_seen END`

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.VisitorID, v.Email, v.IPAddress, v.Device, v.UTMSource,
		v.TimeOnSite, v.Converted, v.CreatedAt, v.LastSeen,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert visitor: %w", err)
	}
	return nil
}

// GetByVisitorID fetches one visitor by its client-generated identifier
func (r *VisitorRepository) GetByVisitorID(ctx context.Context, visitorID string) (*visitor.Visitor, error) {
	defer observe("get", "visitors")()

	query := `SELECT ` + visitorColumns + ` FROM visitors WHERE visitor_id = $1`

	v := &visitor.Visitor{}
	err := r.db.QueryRowContext(ctx, query, visitorID).Scan(
		&v.ID, &v.VisitorID, &v.Email, &v.IPAddress, &v.Device, &v.UTMSource,
		&v.TimeOnSite, &v.Converted, &v.CreatedAt, &v.LastSeen,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("visitor not found: %s", visitorID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visitor: %w", err)
	}
	return v, nil
}

// DeleteByVisitorID removes every row for the identifier and reports the count
func (r *VisitorRepository) DeleteByVisitorID(ctx context.Context, visitorID string) (int64, error) {
	defer observe("delete", "visitors")()

	result, err := r.db.ExecContext(ctx, `DELETE FROM visitors WHERE visitor_id = $1`, visitorID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete visitor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return rows, nil
}

// List returns one page of visitors plus the total matching count.
// limit <= 0 disables pagination (used by the CSV export).
func (r *VisitorRepository) List(ctx context.Context, filter visitor.Filter, limit, offset int) ([]*visitor.Visitor, int64, error) {
	defer observe("list", "visitors")()

	where, args := buildVisitorFilter(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM visitors` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count visitors: %w", err)
	}

	query := `SELECT ` + visitorColumns + ` FROM visitors` + where + ` ORDER BY last_seen DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list visitors: %w", err)
	}
	defer rows.Close()

	visitors := []*visitor.Visitor{}
	for rows.Next() {
		v := &visitor.Visitor{}
		if err := rows.Scan(
			&v.ID, &v.VisitorID, &v.Email, &v.IPAddress, &v.Device, &v.UTMSource,
			&v.TimeOnSite, &v.Converted, &v.CreatedAt, &v.LastSeen,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan visitor: %w", err)
		}
		visitors = append(visitors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate visitors: %w", err)
	}

	return visitors, total, nil
}

// Stats aggregates the summary block over the full unfiltered set
func (r *VisitorRepository) Stats(ctx context.Context, now time.Time) (*visitor.Stats, error) {
	defer observe("stats", "visitors")()

	stats := &visitor.Stats{
		TopSources: []visitor.SourceCount{},
		Devices:    map[string]int64{},
	}

	cutoff := now.Add(-24 * time.Hour)
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN last_seen >= $1 THEN 1 END),
			COALESCE(AVG(time_on_site), 0),
			COALESCE(AVG(CASE WHEN converted THEN 1.0 ELSE 0.0 END), 0)
		FROM visitors`, cutoff).Scan(
		&stats.TotalVisitors, &stats.UniqueLast24h, &stats.AvgTimeOnSite, &stats.ConversionRate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate visitor stats: %w", err)
	}

	srcRows, err := r.db.QueryContext(ctx, `
		SELECT utm_source, COUNT(*) AS cnt
		FROM visitors
		WHERE utm_source IS NOT NULL AND utm_source != ''
		GROUP BY utm_source
		ORDER BY cnt DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top sources: %w", err)
	}
	defer srcRows.Close()

	for srcRows.Next() {
		var sc visitor.SourceCount
		if err := srcRows.Scan(&sc.Source, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		stats.TopSources = append(stats.TopSources, sc)
	}
	if err := srcRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate top sources: %w", err)
	}

	devRows, err := r.db.QueryContext(ctx, `SELECT device, COUNT(*) FROM visitors GROUP BY device`)
	if err != nil {
		return nil, fmt.Errorf("failed to query device breakdown: %w", err)
	}
	defer devRows.Close()

	for devRows.Next() {
		var device string
		var count int64
		if err := devRows.Scan(&device, &count); err != nil {
			return nil, fmt.Errorf("failed to scan device count: %w", err)
		}
		stats.Devices[device] = count
	}
	if err := devRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device breakdown: %w", err)
	}

	return stats, nil
}

// CountAll returns the total number of visitor rows
func (r *VisitorRepository) CountAll(ctx context.Context) (int64, error) {
	defer observe("count", "visitors")()

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visitors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visitors: %w", err)
	}
	return count, nil
}

func buildVisitorFilter(filter visitor.Filter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(visitor_id) LIKE $%d OR LOWER(COALESCE(email, '')) LIKE $%d OR LOWER(ip_address) LIKE $%d)",
			len(args)+1, len(args)+2, len(args)+3,
		))
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Converted != nil {
		conditions = append(conditions, fmt.Sprintf("converted = $%d", len(args)+1))
		args = append(args, *filter.Converted)
	}
	if filter.Device != "" {
		conditions = append(conditions, fmt.Sprintf("device = $%d", len(args)+1))
		args = append(args, filter.Device)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// observe times a query for the db duration histogram
func observe(operation, table string) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQuery(operation, table, time.Since(start))
	}
}
