package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sipbar/sip/internal/validate"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
// For contract errors the field carries the stable code (e.g. NoSuchUser).
func JSONError(w http.ResponseWriter, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// JSONValidationError sends a 422 with the failing check's code and field.
// Validation short-circuits on the first failure, so there is always
// exactly one.
func JSONValidationError(w http.ResponseWriter, verr *validate.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	out := map[string]string{"error": string(verr.Code)}
	if verr.Field != "" {
		out["field"] = verr.Field
	}
	json.NewEncoder(w).Encode(out)
}
