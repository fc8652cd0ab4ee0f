// Package apperr holds the error taxonomy shared by the services and their
// HTTP handlers. Services wrap these sentinels with context
// (fmt.Errorf("username is required: %w", ErrValidation)) and handlers map
// them to status codes with HTTPStatus.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrValidation = errors.New("validation")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("unauthorized")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream failure")
)

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing part of a wrapped taxonomy error:
// "username is required: validation" becomes "username is required".
// Errors outside the taxonomy are not described to the caller.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range []error{ErrValidation, ErrConflict, ErrAuth, ErrForbidden, ErrNotFound, ErrUpstream} {
		if !errors.Is(err, sentinel) {
			continue
		}
		msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
		if msg == "" {
			return sentinel.Error()
		}
		return msg
	}
	return "internal server error"
}
