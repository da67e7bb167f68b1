package handler

import (
	"errors"
	"net/http"

	"cloudstorage/internal/domain"
	"cloudstorage/internal/httputil"
	"cloudstorage/internal/logger"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var stateErr *domain.InvalidStateError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &stateErr):
		logger.FromRequest(r).Warn().Err(err).
			Str("resource_type", stateErr.ResourceType).
			Str("resource_id", stateErr.ResourceID).
			Msg("inconsistent tree")
		httputil.RespondErrorWithExtras(w, stateErr.StatusCode(), stateErr.Message, map[string]any{
			"resource_type": stateErr.ResourceType,
			"resource_id":   stateErr.ResourceID,
		})
	case errors.Is(err, domain.ErrInvalidState):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.FromRequest(r).Error().Err(err).Msg("store unavailable")
		httputil.RespondError(w, http.StatusServiceUnavailable, "storage temporarily unavailable")
	default:
		logger.FromRequest(r).Error().Err(err).Msg("request failed")
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
