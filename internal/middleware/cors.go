// Package middleware provides the HTTP middleware chain: CORS, tracing,
// metrics instrumentation, rate limiting and panic recovery.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/codex-template/service-template/pkg/logger"
)

// CORS returns middleware handling Cross-Origin Resource Sharing for the
// configured origins. An origin of "*" allows every caller.
func CORS(allowedOrigins []string) mux.MiddlewareFunc {
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			break
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && (allowAll || originAllowed(allowedOrigins, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+logger.TraceIDHeader)
				w.Header().Set("Access-Control-Expose-Headers", logger.TraceIDHeader)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == origin || strings.HasSuffix(origin, a) {
			return true
		}
	}
	return false
}
