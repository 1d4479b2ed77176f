package controllers

import (
	"errors"
	"net/http"

	errs "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Errors"
)

// statusFor maps sentinel error kinds to HTTP status codes. Validation and
// conflict are client errors; everything unexpected is a 500 with a generic
// message, the detail stays in the logs.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal detail for server-side failures
func publicMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
