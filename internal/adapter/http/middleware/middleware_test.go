package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexpractice/lexledger/internal/domain"
)

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/matters", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111").Code)

	limited := send("10.0.0.1:2222")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code, "port changes must not evade the limit")
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111").Code)
}

func TestRateLimiter_CleanupDropsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	now = now.Add(10 * time.Minute)
	rl.getLimiter("10.0.0.2")

	assert.Equal(t, 1, rl.CleanupLimiters(5*time.Minute))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRecovery_WritesEnvelope(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rr.Body.String())
}

func TestRequestInfo_CapturesCaller(t *testing.T) {
	var got domain.RequestInfo
	handler := chimiddleware.RequestID(RequestInfo(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = domain.RequestInfoFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	req.Header.Set("User-Agent", "lexledger-test")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", got.IPAddress)
	assert.Equal(t, "lexledger-test", got.UserAgent)
	assert.NotEmpty(t, got.RequestID)
}

func TestLoggingMiddleware_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("nope"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/matters/x", nil))

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"bytes":4`)
}

func corsTestHandler(origins ...string) http.Handler {
	return CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_Preflight(t *testing.T) {
	handler := corsTestHandler("http://localhost:3000/")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/matters/m-1/trust/deposit", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type, Idempotency-Key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), IdempotencyKeyHeader)
	assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_PreflightRejectsUnlistedMethod(t *testing.T) {
	handler := corsTestHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/matters", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	handler := corsTestHandler("http://localhost:3000")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matters", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardNeverAllowsCredentials(t *testing.T) {
	handler := corsTestHandler("*")

	for _, method := range []string{http.MethodGet, http.MethodOptions} {
		req := httptest.NewRequest(method, "/api/v1/matters", nil)
		req.Header.Set("Origin", "http://any.example")
		if method == http.MethodOptions {
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Contains(t, []string{"*", "http://any.example"}, rr.Header().Get("Access-Control-Allow-Origin"), method)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"), method)
	}
}

func TestCORS_BlankOriginsAllowNothing(t *testing.T) {
	handler := corsTestHandler(" ", "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matters", nil)
	req.Header.Set("Origin", "http://any.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	for _, h := range securityHeaders {
		assert.Equal(t, h.value, rr.Header().Get(h.key), h.key)
	}
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}
