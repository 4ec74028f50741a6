package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrait-ai/backend/internal/domain/trial"
	"github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
)

// TrialService implements trial.Service
type TrialService struct {
	repo   trial.Repository
	logger *logger.Logger
}

// NewTrialService creates a new trial service
func NewTrialService(repo trial.Repository, log *logger.Logger) trial.Service {
	return &TrialService{
		repo:   repo,
		logger: log,
	}
}

// HasUsed reports whether the free trial was consumed by this email OR ip
func (s *TrialService) HasUsed(ctx context.Context, email, ipAddress string) (bool, error) {
	return s.repo.ExistsByEmailOrIP(ctx, email, ipAddress)
}

// Claim records trial consumption for the {email, ip} pair
func (s *TrialService) Claim(ctx context.Context, email, ipAddress string) (*trial.Trial, error) {
	used, err := s.repo.ExistsByEmailOrIP(ctx, email, ipAddress)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, errors.TrialAlreadyUsed()
	}

	t := &trial.Trial{
		ID:        uuid.New().String(),
		Email:     email,
		IPAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create trial record")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"email": email,
		"ip":    ipAddress,
	}).Info("Free trial claimed")

	return t, nil
}
