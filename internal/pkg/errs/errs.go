/*
Package errs provides custom error types and application-level error code constants.

This file defines CustomError, the backend-side error carrying a business code, a
user-facing message and the HTTP status written to the response.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"habitpet/internal/pkg/logx"
)

// CustomError is the error structure used throughout the development backend.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-friendly error description.
	Message string

	// Status is the HTTP status code written for this error.
	Status int
}

// Error implements the standard Go error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError constructs a *CustomError from a predefined error code.
// details are printf arguments for messages that carry placeholders. For ErrUnknown
// the first detail may be the underlying error, which is logged and not exposed.
// An unknown code yields ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Message: unknownErr.Message,
			Status:  unknownErr.Status,
		}
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusBadRequest
	}

	if code == ErrUnknown && len(details) > 0 {
		if originalErr, ok := details[0].(error); ok {
			logx.Error(
				originalErr,
				"Handling ErrUnknown with underlying error",
			)
		}
	} else if strings.Contains(customErr.Message, "%") {
		if len(details) == 0 {
			details = []any{"unspecified"}
		}
		customErr.Message = fmt.Sprintf(customErr.Message, details...)
	} else if len(details) > 0 {
		logx.Warn(
			"Details provided for error, but message template has no formatting placeholders. Details ignored.",
			"code", code,
		)
	}

	return &customErr
}
