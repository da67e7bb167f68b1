package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"cloudstorage/internal/httputil"
	"cloudstorage/internal/logger"
)

// Recovery middleware recovers from panics and returns a 500 error
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error().
						Str("error", fmt.Sprint(rec)).
						Str("path", r.URL.Path).
						Str("method", r.Method).
						Str("stack", string(debug.Stack())).
						Msg("panic recovered")

					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
