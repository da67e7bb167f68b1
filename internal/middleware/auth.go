package middleware

import (
	"net/http"

	"cloudstorage/internal/httputil"
	"cloudstorage/internal/logger"

	"github.com/google/uuid"
)

// CallerResolver yields the verified owner of a request
type CallerResolver interface {
	ResolveCaller(r *http.Request) (uuid.UUID, error)
}

// Auth rejects requests without a valid credential and stores the owner id in the context
func Auth(resolver CallerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, err := resolver.ResolveCaller(r)
			if err != nil {
				logger.FromRequest(r).Debug().Err(err).Msg("request not authenticated")
				httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			next.ServeHTTP(w, httputil.WithOwnerID(r, ownerID))
		})
	}
}
