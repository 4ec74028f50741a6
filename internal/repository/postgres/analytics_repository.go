package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/pawtrait-ai/backend/internal/domain/analytics"
	"github.com/pawtrait-ai/backend/internal/domain/event"
	"github.com/pawtrait-ai/backend/internal/domain/order"
)

// AnalyticsRepository implements the analytics read queries. Trend bucketing
// and metadata ranking happen in Go so the SQL stays portable across
// postgres and sqlite (no dialect date or JSON functions).
type AnalyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *sql.DB) analytics.Repository {
	return &AnalyticsRepository{db: db}
}

// Totals computes the platform-wide counters
func (r *AnalyticsRepository) Totals(ctx context.Context, since time.Time) (analytics.Totals, error) {
	defer observe("totals", "user_events")()

	var t analytics.Totals

	scalars := []struct {
		query string
		args  []interface{}
		dest  *int64
	}{
		{`SELECT COUNT(DISTINCT user_id) FROM user_events WHERE user_id IS NOT NULL`, nil, &t.Users},
		{`SELECT COUNT(*) FROM payments WHERE status = $1`, []interface{}{order.StatusPaid}, &t.ActiveSubscriptions},
		{`SELECT COUNT(*) FROM user_events WHERE event_type = $1`, []interface{}{event.TypeGeneration}, &t.TotalGenerations},
		{`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = $1`, []interface{}{order.StatusPaid}, &t.TotalRevenue},
		{`SELECT COUNT(*) FROM user_events WHERE event_type = $1 AND created_at >= $2`, []interface{}{event.TypeGeneration, since}, &t.RecentGenerations},
		{`SELECT COUNT(*) FROM user_events WHERE event_type = $1 AND created_at >= $2`, []interface{}{event.TypeSignup, since}, &t.RecentSignups},
	}

	for _, s := range scalars {
		if err := r.db.QueryRowContext(ctx, s.query, s.args...).Scan(s.dest); err != nil {
			return analytics.Totals{}, fmt.Errorf("failed to compute totals: %w", err)
		}
	}
	return t, nil
}

// TopStyles ranks portrait styles by usage within the window
func (r *AnalyticsRepository) TopStyles(ctx context.Context, since time.Time, n int) ([]analytics.ItemCount, error) {
	defer observe("top_styles", "user_events")()

	counts, err := r.countMetadataValues(ctx, since, "style")
	if err != nil {
		return nil, err
	}
	return rankCounts(counts, n), nil
}

// TopExtras ranks backgrounds and accessories together within the window
func (r *AnalyticsRepository) TopExtras(ctx context.Context, since time.Time, n int) ([]analytics.ItemCount, error) {
	defer observe("top_extras", "user_events")()

	counts, err := r.countMetadataValues(ctx, since, "background", "accessory")
	if err != nil {
		return nil, err
	}
	return rankCounts(counts, n), nil
}

// GenerationTrend returns one bucket per day, oldest first, zero-filled
func (r *AnalyticsRepository) GenerationTrend(ctx context.Context, days int, now time.Time) ([]analytics.DayCount, error) {
	defer observe("generation_trend", "user_events")()

	start := dayStart(now).AddDate(0, 0, -(days - 1))

	rows, err := r.db.QueryContext(ctx,
		`SELECT created_at FROM user_events WHERE event_type = $1 AND created_at >= $2`,
		event.TypeGeneration, start,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation trend: %w", err)
	}
	defer rows.Close()

	buckets := map[string]int64{}
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan generation timestamp: %w", err)
		}
		buckets[ts.UTC().Format("2006-01-02")]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generation trend: %w", err)
	}

	series := make([]analytics.DayCount, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")
		series = append(series, analytics.DayCount{Date: date, Count: buckets[date]})
	}
	return series, nil
}

// RevenueTrend returns paid revenue per day, oldest first, zero-filled
func (r *AnalyticsRepository) RevenueTrend(ctx context.Context, days int, now time.Time) ([]analytics.DayRevenue, error) {
	defer observe("revenue_trend", "payments")()

	start := dayStart(now).AddDate(0, 0, -(days - 1))

	rows, err := r.db.QueryContext(ctx,
		`SELECT updated_at, amount FROM payments WHERE status = $1 AND updated_at >= $2`,
		order.StatusPaid, start,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue trend: %w", err)
	}
	defer rows.Close()

	buckets := map[string]int64{}
	for rows.Next() {
		var ts time.Time
		var amount int64
		if err := rows.Scan(&ts, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		buckets[ts.UTC().Format("2006-01-02")] += amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revenue trend: %w", err)
	}

	series := make([]analytics.DayRevenue, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")
		series = append(series, analytics.DayRevenue{Date: date, Revenue: buckets[date]})
	}
	return series, nil
}

// PlanDistribution counts paid orders per plan tier
func (r *AnalyticsRepository) PlanDistribution(ctx context.Context) ([]analytics.PlanCount, error) {
	defer observe("plan_distribution", "payments")()

	rows, err := r.db.QueryContext(ctx, `
		SELECT plan, COUNT(*) AS cnt
		FROM payments
		WHERE status = $1
		GROUP BY plan
		ORDER BY cnt DESC`, order.StatusPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan distribution: %w", err)
	}
	defer rows.Close()

	plans := []analytics.PlanCount{}
	for rows.Next() {
		var pc analytics.PlanCount
		if err := rows.Scan(&pc.Plan, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan plan count: %w", err)
		}
		plans = append(plans, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plan distribution: %w", err)
	}
	return plans, nil
}

// VisitorSummary counts total and last-24h visitors
func (r *AnalyticsRepository) VisitorSummary(ctx context.Context, now time.Time) (analytics.VisitorSummary, error) {
	defer observe("visitor_summary", "visitors")()

	var vs analytics.VisitorSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(CASE WHEN last_seen >= $1 THEN 1 END)
		FROM visitors`, now.Add(-24*time.Hour),
	).Scan(&vs.Total, &vs.UniqueLast24h)
	if err != nil {
		return analytics.VisitorSummary{}, fmt.Errorf("failed to summarize visitors: %w", err)
	}
	return vs, nil
}

// countMetadataValues tallies the string values of the given metadata keys
// across generation events in the window. "none" and empty values are noise,
// not choices, and are skipped.
func (r *AnalyticsRepository) countMetadataValues(ctx context.Context, since time.Time, keys ...string) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT metadata FROM user_events WHERE event_type = $1 AND created_at >= $2`,
		event.TypeGeneration, since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation metadata: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		var metadata map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			continue // malformed metadata is skipped, not fatal
		}

		for _, key := range keys {
			value, ok := metadata[key].(string)
			if !ok || value == "" || value == "none" {
				continue
			}
			counts[value]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generation metadata: %w", err)
	}
	return counts, nil
}

// rankCounts orders the tally by count descending (name ascending on ties,
// so rankings are stable) and keeps the top n.
func rankCounts(counts map[string]int64, n int) []analytics.ItemCount {
	items := make([]analytics.ItemCount, 0, len(counts))
	for name, count := range counts {
		items = append(items, analytics.ItemCount{Name: name, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
