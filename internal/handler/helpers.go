package handler

import (
	"fmt"
	"net/http"

	"cloudstorage/internal/domain"
	"cloudstorage/internal/httputil"

	"github.com/google/uuid"
)

// ownerFromRequest returns the owner placed in the context by the auth middleware
func ownerFromRequest(r *http.Request) (uuid.UUID, error) {
	ownerID, ok := httputil.GetOwnerID(r)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: no caller in request", domain.ErrUnauthenticated)
	}
	return ownerID, nil
}

// queryFolderID reads the optional folder_id parameter
func queryFolderID(r *http.Request) (*uuid.UUID, error) {
	id, err := httputil.QueryUUID(r, "folder_id")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return id, nil
}

// queryIDs reads every id / ids parameter, at least one is required
func queryIDs(r *http.Request) ([]uuid.UUID, error) {
	ids, err := httputil.QueryUUIDs(r, "id", "ids")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one id is required", domain.ErrValidation)
	}
	return ids, nil
}

func parseBody(w http.ResponseWriter, r *http.Request, dest any) error {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}
