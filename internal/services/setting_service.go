package services

import (
	"context"
	"strconv"

	"github.com/pawtrait-ai/backend/internal/domain/event"
	"github.com/pawtrait-ai/backend/internal/domain/setting"
	"github.com/pawtrait-ai/backend/internal/domain/visitor"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
)

// SettingService implements setting.Service
type SettingService struct {
	repo     setting.Repository
	visitors visitor.Repository
	events   event.Service
	logger   *logger.Logger
}

// NewSettingService creates a new setting service
func NewSettingService(repo setting.Repository, visitors visitor.Repository, events event.Service, log *logger.Logger) setting.Service {
	return &SettingService{
		repo:     repo,
		visitors: visitors,
		events:   events,
		logger:   log,
	}
}

// TrackingStatus reports the kill-switch state for clients. Missing row
// means enabled (online); a store failure degrades to offline rather than
// erroring, since this gates the whole tracking subsystem it must fail closed.
func (s *SettingService) TrackingStatus(ctx context.Context) *setting.TrackingStatus {
	enabled, err := s.TrackingEnabled(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Tracking status check failed, reporting offline")
		return &setting.TrackingStatus{Status: "offline"}
	}
	if !enabled {
		return &setting.TrackingStatus{Status: "offline"}
	}

	status := &setting.TrackingStatus{Status: "online"}
	if count, err := s.visitors.CountAll(ctx); err == nil {
		status.Visitors = count
	}
	return status
}

// TrackingEnabled returns the raw flag; missing row defaults to enabled
func (s *SettingService) TrackingEnabled(ctx context.Context) (bool, error) {
	row, err := s.repo.Get(ctx, setting.KeyVisitorTracking)
	if err == setting.ErrNotFound {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return row.Value == "true", nil
}

// SetTrackingEnabled upserts the flag and appends the audit event
func (s *SettingService) SetTrackingEnabled(ctx context.Context, enabled bool, actor string) (*setting.Setting, error) {
	oldValue := "unset"
	if row, err := s.repo.Get(ctx, setting.KeyVisitorTracking); err == nil {
		oldValue = row.Value
	}

	newValue := strconv.FormatBool(enabled)
	updated, err := s.repo.Upsert(ctx, setting.KeyVisitorTracking, newValue)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to update tracking setting")
		return nil, err
	}

	// Audit trail is best-effort: the setting change already succeeded.
	if _, err := s.events.Record(ctx, &event.Event{
		EventType: event.TypeSettingChanged,
		Metadata: map[string]interface{}{
			"key":       setting.KeyVisitorTracking,
			"old_value": oldValue,
			"new_value": newValue,
			"actor":     actor,
		},
	}); err != nil {
		s.logger.ErrorWithErr(err, "Failed to append settings audit event")
	}

	s.logger.WithFields(map[string]interface{}{
		"old_value": oldValue,
		"new_value": newValue,
		"actor":     actor,
	}).Info("Tracking setting changed")

	return updated, nil
}
