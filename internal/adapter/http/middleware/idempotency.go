package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/metrics"
	"github.com/lexpractice/lexledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	defaultIdempotencyTTL = 24 * time.Hour
	maxIdempotencyKeyLen  = 255
)

// storedResponse is what the store keeps for a completed request.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the response to a repeated mutating request
// that carries the same Idempotency-Key. Keys are scoped to the actor,
// method and path, so it must run after authentication.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// keeps responses for a day.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, metrics: m, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			writeError(w, http.StatusBadRequest, "Idempotency-Key is too long")
			return
		}

		scoped := scopeKey(r, key)

		reserved, cached, err := m.store.Reserve(r.Context(), scoped, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Msg("idempotency reserve failed")
			writeError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if !reserved {
			if cached == nil {
				writeError(w, http.StatusConflict, "A request with this Idempotency-Key is already in progress")
				return
			}
			m.replay(w, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}

		completed := false
		defer func() {
			if !completed {
				m.release(scoped)
			}
		}()

		next.ServeHTTP(recorder, r)

		// Failed requests may be retried with the same key.
		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			return
		}

		stored := storedResponse{Status: recorder.statusCode}
		if recorder.body.Len() > 0 {
			stored.Body = recorder.body.Bytes()
		}

		payload, err := json.Marshal(stored)
		if err != nil {
			m.logger.Error().Err(err).Msg("failed to encode idempotent response")
			return
		}

		if err := m.store.Complete(context.WithoutCancel(r.Context()), scoped, payload, m.ttl); err != nil {
			m.logger.Error().Err(err).Msg("failed to store idempotent response")
			return
		}
		completed = true
	})
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, cached []byte) {
	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil || stored.Status == 0 {
		m.logger.Error().Err(err).Msg("corrupt idempotent response")
		writeError(w, http.StatusInternalServerError, "idempotency check failed")
		return
	}

	if m.metrics != nil {
		m.metrics.IdempotentReplays.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(stored.Status)
	if len(stored.Body) > 0 && string(stored.Body) != "null" {
		_, _ = w.Write(stored.Body)
	}
}

func (m *IdempotencyMiddleware) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := m.store.Release(ctx, key); err != nil {
		m.logger.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

func scopeKey(r *http.Request, key string) string {
	actorID := "anonymous"
	if actor, ok := domain.ActorFromContext(r.Context()); ok {
		actorID = actor.ID
	}
	return actorID + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
