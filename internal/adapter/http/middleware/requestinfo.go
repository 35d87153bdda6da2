package middleware

import (
	"net"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lexpractice/lexledger/internal/domain"
)

// RequestInfo records the caller's address, user agent and request ID on
// the context for audit logging. It must run after chi's RequestID and
// RealIP.
func RequestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := domain.WithRequestInfo(r.Context(), domain.RequestInfo{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
			RequestID: chimiddleware.GetReqID(r.Context()),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
