package shared

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UUIDParam reads a chi URL parameter as a UUID, answering 400 when it is
// malformed.
func UUIDParam(w http.ResponseWriter, r *http.Request, name, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		FailValidation(w, requestID, []ValidationIssue{{Field: name, Reason: "must be a valid UUID"}})
		return uuid.Nil, false
	}
	return id, true
}
