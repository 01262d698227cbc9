// Package error defines the API error schema and helpers for writing it.
package error

import (
	"encoding/json"
	"net/http"
)

// Error is the JSON body written on every failed request. Message is safe
// to show to clients; internal details stay in the server logs keyed by
// ErrorID.
type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"-"`
	Message string    `json:"error"`
	ErrorID string    `json:"error_id,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// EncodeError writes the error schema for the given code and message.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, errorID string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.StatusCode())
	return json.NewEncoder(w).Encode(Error{
		Code:    code,
		Status:  code.StatusCode(),
		Message: message,
		ErrorID: errorID,
	})
}

// EncodeInternalError writes an opaque 500 response.
func EncodeInternalError(w http.ResponseWriter, errorID string) error {
	return EncodeError(w, InternalServerError, "internal server error", errorID)
}
