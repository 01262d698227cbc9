package error

import "net/http"

type ErrorCode string

const (
	UnknownError        ErrorCode = "unknown_error"
	InternalServerError ErrorCode = "internal_server_error"
	BadRequest          ErrorCode = "bad_request"
	EmptyBody           ErrorCode = "empty_body"
	ValidationFailed    ErrorCode = "validation_failed"
	RecipeNotFound      ErrorCode = "recipe_not_found"
	PhotoNotFound       ErrorCode = "photo_not_found"
	RequestTooLarge     ErrorCode = "request_too_large"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:        0, // No error code - unknown
	InternalServerError: http.StatusInternalServerError,
	BadRequest:          http.StatusBadRequest,
	EmptyBody:           http.StatusBadRequest,
	ValidationFailed:    http.StatusBadRequest,
	RecipeNotFound:      http.StatusNotFound,
	PhotoNotFound:       http.StatusNotFound,
	RequestTooLarge:     http.StatusRequestEntityTooLarge,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
