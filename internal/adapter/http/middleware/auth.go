package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/auth"
	"github.com/lexpractice/lexledger/internal/infrastructure/metrics"
)

// UserLookup loads the user a token was issued to.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticator verifies bearer tokens and confirms the user is still active.
type Authenticator struct {
	jwtManager *auth.JWTManager
	users      UserLookup
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewAuthenticator creates an Authenticator. m may be nil.
func NewAuthenticator(jwtManager *auth.JWTManager, users UserLookup, m *metrics.Metrics, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		jwtManager: jwtManager,
		users:      users,
		metrics:    m,
		logger:     logger,
	}
}

// Authenticate rejects requests without a valid token for an active user
// and puts the actor on the request context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			a.observe("missing")
			writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		claims, err := a.jwtManager.Verify(tokenString)
		if err != nil {
			a.observe("invalid")
			message := "Invalid token"
			if errors.Is(err, domain.ErrExpiredToken) {
				message = "Token expired"
			}
			writeError(w, http.StatusUnauthorized, message)
			return
		}

		user, err := a.users.GetByID(r.Context(), claims.UserID)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			a.observe("unknown_user")
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		case err != nil:
			a.logger.Error().Err(err).Str("user_id", claims.UserID).Msg("failed to load user for token")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		case !user.Active:
			a.observe("inactive")
			writeError(w, http.StatusUnauthorized, "Account is inactive")
			return
		}

		a.observe("success")

		// The stored role wins over the one in the token.
		ctx := domain.WithActor(r.Context(), domain.Actor{ID: user.ID, Role: user.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) observe(status string) {
	if a.metrics != nil {
		a.metrics.AuthAttempts.WithLabelValues(status).Inc()
	}
}

// RequireRoles allows the request through only if the actor holds one of
// roles.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := domain.ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, "Access denied. Insufficient permissions.")
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.Envelope{Success: false, Message: message})
}
