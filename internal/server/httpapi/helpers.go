package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbuga/passvault/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errToStatus(err), errorResponse{Error: publicMessage(err)})
}

func errToStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidSignature),
		errors.Is(err, common.ErrTokenMalformed):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps internal details out of responses. Validation errors
// carry their full message (they describe the caller's own input); the
// invalid-credentials message is fixed so both failure causes read the
// same.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrDuplicateEmail):
		return err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return common.ErrInvalidCredentials.Error()
	case errToStatus(err) == http.StatusUnauthorized:
		return "unauthorized"
	case errors.Is(err, common.ErrNotFound):
		return "not found"
	default:
		return "internal error"
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}
