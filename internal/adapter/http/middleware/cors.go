package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows browser calls from the configured origins. "*" allows any
// origin. Clients authenticate with a bearer token, so credentialed
// requests (cookies) are never allowed.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}

	// An empty list would make the library allow every origin.
	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", IdempotencyKeyHeader},
		ExposedHeaders:   []string{"X-Request-Id", IdempotencyReplayHeader},
		AllowCredentials: false,
		MaxAge:           600,
	})
}
