// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// RespondError maps the error taxonomy to RFC7807 responses.
// Persistence and unknown failures never expose their message.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument):
		Problem(w, http.StatusBadRequest, "Invalid Argument", err.Error())
	case errors.Is(err, shared.ErrPermissionDenied):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
