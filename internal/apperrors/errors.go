// Package apperrors holds the error taxonomy shared by the store, the
// geometry codec and the HTTP layer.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrMalformedGeometry    = errors.New("malformed geometry")
	ErrValidation           = errors.New("validation failed")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrConstraintViolation  = errors.New("constraint violation")
	ErrStoreUnavailable     = errors.New("store unavailable")
)

// HTTPStatus maps an error from the taxonomy to the status code returned to
// clients. Unknown errors are server faults.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMalformedGeometry):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
