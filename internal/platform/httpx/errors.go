// Package httpx provides HTTP response utilities following RFC7807 problem details.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Unauthorized and Forbidden are kept
// distinct across the whole system: a missing session is never reported as a
// permission failure, and vice versa.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// PermissionDeniedDetail is the user-facing message for permission failures.
// It deliberately leaks nothing about roles or grants.
const PermissionDeniedDetail = "You don't have permission to perform this action"

// AuthenticationRequiredDetail is the user-facing message for missing or
// unresolvable sessions.
const AuthenticationRequiredDetail = "Authentication required"

// RespondError maps domain errors to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, ErrForbidden):
		Forbidden(w, PermissionDeniedDetail)
	case errors.Is(err, ErrUnauthorized):
		Unauthorized(w)
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// Unauthorized writes the authentication-required problem response.
func Unauthorized(w http.ResponseWriter) {
	Problem(w, http.StatusUnauthorized, "Unauthorized", AuthenticationRequiredDetail)
}

// Forbidden writes a permission-denied problem response with the given
// detail message.
func Forbidden(w http.ResponseWriter, detail string) {
	Problem(w, http.StatusForbidden, "Forbidden", detail)
}
