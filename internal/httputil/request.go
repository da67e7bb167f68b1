package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ParseJSON decodes the request body into dest. Bodies are capped at 10MB.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// QueryUUID parses an optional uuid query parameter. Absent or empty yields nil.
func QueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid id %q", key, raw)
	}
	return &id, nil
}

// QueryUUIDs collects every value of the given keys. Comma separated lists are accepted.
func QueryUUIDs(r *http.Request, keys ...string) ([]uuid.UUID, error) {
	query := r.URL.Query()
	var ids []uuid.UUID
	for _, key := range keys {
		for _, value := range query[key] {
			for _, raw := range strings.Split(value, ",") {
				raw = strings.TrimSpace(raw)
				if raw == "" {
					continue
				}
				id, err := uuid.Parse(raw)
				if err != nil {
					return nil, fmt.Errorf("%s: invalid id %q", key, raw)
				}
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}
