/*
Package resp defines the response envelope shared by the backend and the client core.

Every response body is {success, message, data}. The backend writes it with
RespondSuccess and RespondError; the client decodes it into Envelope[T].
*/
package resp

import (
	"encoding/json"
	"net/http"

	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

// Envelope is the wire shape of every response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Raw is an envelope whose payload is decoded later.
type Raw = Envelope[json.RawMessage]

// RespondJSON sets the Content-Type and writes the JSON payload.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends a successful response (HTTP 200 OK).
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	RespondJSON(w, r, http.StatusOK, Envelope[any]{
		Success: true,
		Message: "success",
		Data:    data,
	})
}

// RespondError sends the status and message of customErr with success=false.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, Envelope[any]{
		Success: false,
		Message: customErr.Message,
	})
}
