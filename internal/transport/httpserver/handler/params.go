package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// pathUUID validates a path parameter as a UUID before anything touches the
// database, and returns its canonical lowercase form.
func pathUUID(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%s must be a valid uuid", name)
	}
	return parsed.String(), nil
}

// validUUIDs checks every id in a bulk request body the same way.
func validUUIDs(ids []string) ([]string, error) {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(id))
		if err != nil {
			return nil, fmt.Errorf("itemIds must be valid uuids")
		}
		result = append(result, parsed.String())
	}
	return result, nil
}
