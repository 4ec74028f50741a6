package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrait-ai/backend/internal/domain/event"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
)

// EventService implements event.Service
type EventService struct {
	repo   event.Repository
	logger *logger.Logger
}

// NewEventService creates a new event service
func NewEventService(repo event.Repository, log *logger.Logger) event.Service {
	return &EventService{
		repo:   repo,
		logger: log,
	}
}

// Record inserts one immutable event row and returns its id
func (s *EventService) Record(ctx context.Context, e *event.Event) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.IPAddress == "" {
		e.IPAddress = "unknown"
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"event_type": e.EventType,
		}).WithError(err).Error("Failed to record event")
		return "", err
	}

	return e.ID, nil
}
