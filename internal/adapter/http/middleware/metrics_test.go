package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsRouter(status int) http.Handler {
	r := chi.NewRouter()
	r.Use(Metrics)

	reply := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) }
	r.Get("/health", reply)
	r.Route("/api/v1/matters", func(r chi.Router) {
		r.Get("/", reply)
		r.Get("/dashboard/stats", reply)
		r.Route("/{id}/trust", func(r chi.Router) {
			r.Get("/", reply)
			r.Post("/deposit", reply)
		})
	})
	r.Put("/api/v1/payroll/{id}/status", reply)
	return r
}

func TestMetricsMiddleware_LabelsByRoutePattern(t *testing.T) {
	testCases := []struct {
		name     string
		method   string
		path     string
		expected string
	}{
		{"matter id replaced", http.MethodGet, "/api/v1/matters/01HX3Q/trust", "/api/v1/matters/{id}/trust"},
		{"trust deposit", http.MethodPost, "/api/v1/matters/01HX3Q/trust/deposit", "/api/v1/matters/{id}/trust/deposit"},
		{"static route kept", http.MethodGet, "/api/v1/matters/dashboard/stats", "/api/v1/matters/dashboard/stats"},
		{"collection root", http.MethodGet, "/api/v1/matters", "/api/v1/matters"},
		{"payroll status", http.MethodPut, "/api/v1/payroll/01HX3QPAY/status", "/api/v1/payroll/{id}/status"},
		{"ops path", http.MethodGet, "/health", "/health"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			rr := httptest.NewRecorder()
			newMetricsRouter(http.StatusTeapot).ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			require.Equal(t, http.StatusTeapot, rr.Code)

			assert.Zero(t, testutil.ToFloat64(httpRequestsInFlight))
			counter := httpRequestsTotal.WithLabelValues(tc.method, tc.expected, strconv.Itoa(http.StatusTeapot))
			assert.Equal(t, float64(1), testutil.ToFloat64(counter))
			assert.Equal(t, 1, testutil.CollectAndCount(httpRequestsTotal))
		})
	}
}

func TestMetricsMiddleware_UnroutedRequests(t *testing.T) {
	httpRequestsTotal.Reset()

	rr := httptest.NewRecorder()
	newMetricsRouter(http.StatusOK).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wp-login.php", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	// Outside chi there is no route context at all.
	httpRequestsTotal.Reset()
	Metrics(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/1", nil))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
}
