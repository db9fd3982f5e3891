package validators

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
)

// ParseUUIDParam reads a chi URL parameter and parses it as a UUID. A malformed
// id surfaces as a validation error so clients see 400 rather than 500.
func ParseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid resource id").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
