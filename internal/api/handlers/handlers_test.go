package handlers

import (
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/validator"
)

var (
	testLogger    = logger.New(logger.Config{Level: "error", Format: "json"})
	testValidator = validator.New()
)
