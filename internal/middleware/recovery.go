package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	apperr "github.com/codex-template/service-template/internal/errors"
	"github.com/codex-template/service-template/pkg/logger"
)

// Recovery converts handler panics into 500 responses so a single bad
// request cannot take the process down.
func Recovery(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithField("panic", rec).WithField("path", r.URL.Path).
						Error("handler panicked")

					svcErr := apperr.Internal("an unexpected error occurred", nil)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(svcErr.HTTPStatus)
					_ = json.NewEncoder(w).Encode(svcErr)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
