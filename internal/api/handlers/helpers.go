package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
)

// clientIP resolves the caller address: forwarded headers first (the API sits
// behind a proxy in production), then the socket address, else "unknown".
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// first hop is the original client
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// decodeJSON decodes the request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError maps a service error onto the HTTP boundary. AppErrors
// carry their own status; anything else becomes a generic 500 so internals
// never leak to callers.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error, fallback string) {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		utils.WriteError(w, appErr)
		return
	}
	log.ErrorWithErr(err, fallback)
	utils.WriteError(w, apperrors.Internal(fallback, err))
}

// intQuery parses an integer query parameter with a default
func intQuery(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// boolQuery parses an optional boolean query parameter; nil when absent or
// unparseable.
func boolQuery(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}
