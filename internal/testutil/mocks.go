// Package testutil provides in-memory repository doubles shared by service
// and handler tests. Each mock keeps state in plain slices/maps and exposes
// error fields to force failures.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pawtrait-ai/backend/internal/domain/analytics"
	"github.com/pawtrait-ai/backend/internal/domain/event"
	"github.com/pawtrait-ai/backend/internal/domain/order"
	"github.com/pawtrait-ai/backend/internal/domain/setting"
	"github.com/pawtrait-ai/backend/internal/domain/trial"
	"github.com/pawtrait-ai/backend/internal/domain/visitor"
)

// MockVisitorRepository is an in-memory visitor.Repository
type MockVisitorRepository struct {
	Visitors []*visitor.Visitor

	UpsertErr error
	GetErr    error
	DeleteErr error
	ListErr   error
	StatsErr  error
	CountErr  error

	// StatsResult is returned verbatim when set; otherwise Stats computes
	// counts from the stored visitors.
	StatsResult *visitor.Stats
}

func (m *MockVisitorRepository) Upsert(ctx context.Context, v *visitor.Visitor) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, existing := range m.Visitors {
		if existing.VisitorID == v.VisitorID {
			if v.Email != nil {
				existing.Email = v.Email
			}
			if v.UTMSource != nil {
				existing.UTMSource = v.UTMSource
			}
			existing.IPAddress = v.IPAddress
			existing.Device = v.Device
			existing.TimeOnSite += v.TimeOnSite
			existing.Converted = existing.Converted || v.Converted
			if v.LastSeen.After(existing.LastSeen) {
				existing.LastSeen = v.LastSeen
			}
			return nil
		}
	}
	clone := *v
	m.Visitors = append(m.Visitors, &clone)
	return nil
}

func (m *MockVisitorRepository) GetByVisitorID(ctx context.Context, visitorID string) (*visitor.Visitor, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, v := range m.Visitors {
		if v.VisitorID == visitorID {
			return v, nil
		}
	}
	return nil, fmt.Errorf("visitor not found: %s", visitorID)
}

func (m *MockVisitorRepository) DeleteByVisitorID(ctx context.Context, visitorID string) (int64, error) {
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	var kept []*visitor.Visitor
	var removed int64
	for _, v := range m.Visitors {
		if v.VisitorID == visitorID {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	m.Visitors = kept
	return removed, nil
}

func (m *MockVisitorRepository) List(ctx context.Context, filter visitor.Filter, limit, offset int) ([]*visitor.Visitor, int64, error) {
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}

	matched := []*visitor.Visitor{}
	for _, v := range m.Visitors {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			email := ""
			if v.Email != nil {
				email = strings.ToLower(*v.Email)
			}
			if !strings.Contains(strings.ToLower(v.VisitorID), needle) &&
				!strings.Contains(email, needle) &&
				!strings.Contains(strings.ToLower(v.IPAddress), needle) {
				continue
			}
		}
		if filter.Converted != nil && v.Converted != *filter.Converted {
			continue
		}
		if filter.Device != "" && v.Device != filter.Device {
			continue
		}
		matched = append(matched, v)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].LastSeen.After(matched[j].LastSeen)
	})

	total := int64(len(matched))
	if limit <= 0 {
		return matched, total, nil
	}
	if offset >= len(matched) {
		return []*visitor.Visitor{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *MockVisitorRepository) Stats(ctx context.Context, now time.Time) (*visitor.Stats, error) {
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	if m.StatsResult != nil {
		return m.StatsResult, nil
	}
	stats := &visitor.Stats{
		TotalVisitors: int64(len(m.Visitors)),
		TopSources:    []visitor.SourceCount{},
		Devices:       map[string]int64{},
	}
	for _, v := range m.Visitors {
		if now.Sub(v.LastSeen) <= 24*time.Hour {
			stats.UniqueLast24h++
		}
		stats.Devices[v.Device]++
	}
	return stats, nil
}

func (m *MockVisitorRepository) CountAll(ctx context.Context) (int64, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return int64(len(m.Visitors)), nil
}

// MockEventRepository is an in-memory event.Repository
type MockEventRepository struct {
	Events    []*event.Event
	CreateErr error
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	clone := *e
	m.Events = append(m.Events, &clone)
	return nil
}

// MockTrialRepository is an in-memory trial.Repository
type MockTrialRepository struct {
	Trials    []*trial.Trial
	ExistsErr error
	CreateErr error
}

func (m *MockTrialRepository) ExistsByEmailOrIP(ctx context.Context, email, ipAddress string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	for _, t := range m.Trials {
		if t.Email == email || t.IPAddress == ipAddress {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTrialRepository) Create(ctx context.Context, t *trial.Trial) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	clone := *t
	m.Trials = append(m.Trials, &clone)
	return nil
}

// MockSettingRepository is an in-memory setting.Repository
type MockSettingRepository struct {
	Settings  map[string]*setting.Setting
	GetErr    error
	UpsertErr error
}

func (m *MockSettingRepository) Get(ctx context.Context, key string) (*setting.Setting, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if s, ok := m.Settings[key]; ok {
		return s, nil
	}
	return nil, setting.ErrNotFound
}

func (m *MockSettingRepository) Upsert(ctx context.Context, key, value string) (*setting.Setting, error) {
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}
	if m.Settings == nil {
		m.Settings = map[string]*setting.Setting{}
	}
	s := &setting.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	m.Settings[key] = s
	return s, nil
}

// MockOrderRepository is an in-memory order.Repository
type MockOrderRepository struct {
	Payments []*order.Payment
	// EmailByUser backs the user email denormalization in List.
	EmailByUser map[string]string

	CreateErr     error
	GetErr        error
	SetGatewayErr error
	MarkPaidErr   error
	ListErr       error
	StatsErr      error
}

func (m *MockOrderRepository) Create(ctx context.Context, p *order.Payment) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	clone := *p
	m.Payments = append(m.Payments, &clone)
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*order.Payment, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, p := range m.Payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("payment not found: %s", id)
}

func (m *MockOrderRepository) SetGatewayOrderID(ctx context.Context, id, gatewayOrderID string) error {
	if m.SetGatewayErr != nil {
		return m.SetGatewayErr
	}
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.GatewayOrderID = gatewayOrderID
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id, gatewayPaymentID, gatewaySignature string) error {
	if m.MarkPaidErr != nil {
		return m.MarkPaidErr
	}
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Status = order.StatusPaid
	p.GatewayPaymentID = gatewayPaymentID
	p.GatewaySignature = gatewaySignature
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter order.Filter, limit, offset int) ([]*order.Order, int64, error) {
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}

	matched := []*order.Order{}
	for _, p := range m.Payments {
		email := "Unknown"
		if p.UserID != nil {
			if e, ok := m.EmailByUser[*p.UserID]; ok {
				email = e
			}
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.ID), needle) &&
				!strings.Contains(strings.ToLower(p.GatewayOrderID), needle) &&
				!strings.Contains(strings.ToLower(p.GatewayPaymentID), needle) &&
				!strings.Contains(strings.ToLower(email), needle) {
				continue
			}
		}
		matched = append(matched, &order.Order{Payment: *p, UserEmail: email})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if limit <= 0 {
		return matched, total, nil
	}
	if offset >= len(matched) {
		return []*order.Order{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *MockOrderRepository) Stats(ctx context.Context) (*order.Stats, error) {
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	stats := &order.Stats{TotalCount: int64(len(m.Payments))}
	for _, p := range m.Payments {
		if p.Status == order.StatusPaid {
			stats.PaidCount++
			stats.TotalRevenue += p.Amount
		}
	}
	if stats.PaidCount > 0 {
		stats.AvgOrderValue = float64(stats.TotalRevenue) / float64(stats.PaidCount)
	}
	return stats, nil
}

// MockAnalyticsRepository returns canned results per query, with one error
// knob per query so tests can fail sections independently.
type MockAnalyticsRepository struct {
	TotalsResult  analytics.Totals
	StylesResult  []analytics.ItemCount
	ExtrasResult  []analytics.ItemCount
	GenTrend      []analytics.DayCount
	RevTrend      []analytics.DayRevenue
	Plans         []analytics.PlanCount
	VisitorResult analytics.VisitorSummary

	TotalsErr  error
	StylesErr  error
	ExtrasErr  error
	GenErr     error
	RevErr     error
	PlansErr   error
	VisitorErr error
}

func (m *MockAnalyticsRepository) Totals(ctx context.Context, since time.Time) (analytics.Totals, error) {
	return m.TotalsResult, m.TotalsErr
}

func (m *MockAnalyticsRepository) TopStyles(ctx context.Context, since time.Time, n int) ([]analytics.ItemCount, error) {
	return m.StylesResult, m.StylesErr
}

func (m *MockAnalyticsRepository) TopExtras(ctx context.Context, since time.Time, n int) ([]analytics.ItemCount, error) {
	return m.ExtrasResult, m.ExtrasErr
}

func (m *MockAnalyticsRepository) GenerationTrend(ctx context.Context, days int, now time.Time) ([]analytics.DayCount, error) {
	return m.GenTrend, m.GenErr
}

func (m *MockAnalyticsRepository) RevenueTrend(ctx context.Context, days int, now time.Time) ([]analytics.DayRevenue, error) {
	return m.RevTrend, m.RevErr
}

func (m *MockAnalyticsRepository) PlanDistribution(ctx context.Context) ([]analytics.PlanCount, error) {
	return m.Plans, m.PlansErr
}

func (m *MockAnalyticsRepository) VisitorSummary(ctx context.Context, now time.Time) (analytics.VisitorSummary, error) {
	return m.VisitorResult, m.VisitorErr
}
