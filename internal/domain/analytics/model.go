package analytics

import (
	"context"
	"time"
)

// Summary is the full analytics bundle for a trailing window. The seven
// sections are computed by independent queries; a failed section is
// substituted with its zero value and the rest still populate.
type Summary struct {
	Period           string         `json:"period"` // e.g. "Last 30 days"
	Totals           Totals         `json:"totals"`
	PopularStyles    []ItemCount    `json:"popular_styles"`
	PopularExtras    []ItemCount    `json:"popular_extras"` // backgrounds + accessories
	GenerationTrend  []DayCount     `json:"generation_trend"`
	RevenueTrend     []DayRevenue   `json:"revenue_trend"`
	PlanDistribution []PlanCount    `json:"plan_distribution"`
	Visitors         VisitorSummary `json:"visitors"`
	Hint             string         `json:"hint,omitempty"` // cold-start signal for operators
}

// Totals are the platform-wide counters
type Totals struct {
	Users               int64 `json:"users"`
	ActiveSubscriptions int64 `json:"active_subscriptions"`
	TotalGenerations    int64 `json:"total_generations"`
	TotalRevenue        int64 `json:"total_revenue"` // minor units
	RecentGenerations   int64 `json:"recent_generations"`
	RecentSignups       int64 `json:"recent_signups"`
}

// ItemCount is one ranked item (style, background, accessory) with usage count
type ItemCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DayCount is one day of the generation trend series
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// DayRevenue is one day of the revenue trend series
type DayRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"` // minor units
}

// PlanCount is one plan tier with its paid order count
type PlanCount struct {
	Plan  string `json:"plan"`
	Count int64  `json:"count"`
}

// VisitorSummary is the visitor section of the bundle
type VisitorSummary struct {
	Total         int64 `json:"total"`
	UniqueLast24h int64 `json:"unique_last_24h"`
}

// Repository defines the seven independent read queries. Each is isolated:
// the service substitutes a zero value when one fails.
type Repository interface {
	Totals(ctx context.Context, since time.Time) (Totals, error)
	TopStyles(ctx context.Context, since time.Time, n int) ([]ItemCount, error)
	TopExtras(ctx context.Context, since time.Time, n int) ([]ItemCount, error)
	GenerationTrend(ctx context.Context, days int, now time.Time) ([]DayCount, error)
	RevenueTrend(ctx context.Context, days int, now time.Time) ([]DayRevenue, error)
	PlanDistribution(ctx context.Context) ([]PlanCount, error)
	VisitorSummary(ctx context.Context, now time.Time) (VisitorSummary, error)
}

// Service defines the analytics service interface
type Service interface {
	Summary(ctx context.Context, days, topN int) *Summary
}
