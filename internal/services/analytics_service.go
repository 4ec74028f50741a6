package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pawtrait-ai/backend/internal/domain/analytics"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
)

// AnalyticsService implements analytics.Service
type AnalyticsService struct {
	repo   analytics.Repository
	logger *logger.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo analytics.Repository, log *logger.Logger) analytics.Service {
	return &AnalyticsService{
		repo:   repo,
		logger: log,
	}
}

// Summary computes the analytics bundle for a trailing window. The seven
// sections run concurrently; each writes to its own field, so no locking is
// needed. A failed section keeps its zero value and never fails the bundle.
func (s *AnalyticsService) Summary(ctx context.Context, days, topN int) *analytics.Summary {
	if days <= 0 {
		days = 30
	}
	if topN <= 0 {
		topN = 10
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -days)

	out := &analytics.Summary{
		Period:           fmt.Sprintf("Last %d days", days),
		PopularStyles:    []analytics.ItemCount{},
		PopularExtras:    []analytics.ItemCount{},
		GenerationTrend:  []analytics.DayCount{},
		RevenueTrend:     []analytics.DayRevenue{},
		PlanDistribution: []analytics.PlanCount{},
	}

	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.logger.WithFields(map[string]interface{}{
					"metric": name,
				}).WithError(err).Error("Analytics metric failed, using zero value")
			}
		}()
	}

	run("totals", func() error {
		totals, err := s.repo.Totals(ctx, since)
		if err != nil {
			return err
		}
		out.Totals = totals
		return nil
	})

	run("top_styles", func() error {
		items, err := s.repo.TopStyles(ctx, since, topN)
		if err != nil {
			return err
		}
		if items != nil {
			out.PopularStyles = items
		}
		return nil
	})

	run("top_extras", func() error {
		items, err := s.repo.TopExtras(ctx, since, topN)
		if err != nil {
			return err
		}
		if items != nil {
			out.PopularExtras = items
		}
		return nil
	})

	run("generation_trend", func() error {
		series, err := s.repo.GenerationTrend(ctx, days, now)
		if err != nil {
			return err
		}
		if series != nil {
			out.GenerationTrend = series
		}
		return nil
	})

	run("revenue_trend", func() error {
		series, err := s.repo.RevenueTrend(ctx, days, now)
		if err != nil {
			return err
		}
		if series != nil {
			out.RevenueTrend = series
		}
		return nil
	})

	run("plan_distribution", func() error {
		plans, err := s.repo.PlanDistribution(ctx)
		if err != nil {
			return err
		}
		if plans != nil {
			out.PlanDistribution = plans
		}
		return nil
	})

	run("visitors", func() error {
		vs, err := s.repo.VisitorSummary(ctx, now)
		if err != nil {
			return err
		}
		out.Visitors = vs
		return nil
	})

	wg.Wait()

	if out.Totals.Users == 0 {
		out.Hint = "No users yet. Metrics will populate once the first visitor signs up."
	}

	return out
}
