package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/pawtrait-ai/backend/internal/pkg/errors"
	"github.com/pawtrait-ai/backend/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

// AdminAuth returns a middleware that validates the static admin bearer key.
// The request is rejected before any handler (and therefore any storage
// access) runs. Comparison is constant-time.
func AdminAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				utils.WriteError(w, errors.Unauthorized("Admin access is not configured"))
				return
			}

			authHeader := r.Header.Get("Authorization")
			var token string
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					token = parts[1]
				}
			}

			if token == "" {
				utils.WriteError(w, errors.Unauthorized("Missing admin credential"))
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				utils.WriteError(w, errors.Unauthorized("Invalid admin credential"))
				return
			}

			AddLogField(w, "admin", true)

			next.ServeHTTP(w, r)
		})
	}
}
