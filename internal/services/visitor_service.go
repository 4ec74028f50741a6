package services

import (
	"context"
	"time"

	"github.com/pawtrait-ai/backend/internal/domain/visitor"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
)

// VisitorService implements visitor.Service
type VisitorService struct {
	repo   visitor.Repository
	logger *logger.Logger
}

// NewVisitorService creates a new visitor service
func NewVisitorService(repo visitor.Repository, log *logger.Logger) visitor.Service {
	return &VisitorService{
		repo:   repo,
		logger: log,
	}
}

// Record upserts one visitor observation. last_seen is stamped here so the
// monotonic non-decreasing property holds regardless of client clocks.
func (s *VisitorService) Record(ctx context.Context, v *visitor.Visitor) error {
	now := time.Now().UTC()
	v.LastSeen = now
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.Device == "" {
		v.Device = visitor.DeviceUnknown
	}

	if err := s.repo.Upsert(ctx, v); err != nil {
		s.logger.ErrorWithErr(err, "Failed to upsert visitor")
		return err
	}

	return nil
}

// Forget hard-deletes all rows for the identifier
func (s *VisitorService) Forget(ctx context.Context, visitorID string) (int64, error) {
	deleted, err := s.repo.DeleteByVisitorID(ctx, visitorID)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to delete visitor")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"visitor_id": visitorID,
		"rows":       deleted,
	}).Info("Visitor erased")

	return deleted, nil
}

// List returns one page plus the stats block over the unfiltered set
func (s *VisitorService) List(ctx context.Context, filter visitor.Filter, limit, offset int) ([]*visitor.Visitor, int64, *visitor.Stats, error) {
	visitors, total, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, nil, err
	}

	stats, err := s.repo.Stats(ctx, time.Now().UTC())
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to compute visitor stats")
		return nil, 0, nil, err
	}

	return visitors, total, stats, nil
}

// Export returns all visitors matching the filter, unpaginated
func (s *VisitorService) Export(ctx context.Context, filter visitor.Filter) ([]*visitor.Visitor, error) {
	visitors, _, err := s.repo.List(ctx, filter, 0, 0)
	return visitors, err
}
