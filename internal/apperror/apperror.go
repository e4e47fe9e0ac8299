// Package apperror provides the typed application error used across all
// services. Every business-rule failure carries an HTTP-style status code and
// a human-readable message; callers serialize it through Envelope so internal
// details (stack traces, DB errors) never leak to clients.
package apperror

import (
	"errors"
	"net/http"
)

// AppError is the canonical typed failure for business-rule violations.
type AppError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func New(status int, msg string) *AppError {
	return &AppError{Status: status, Message: msg}
}

func BadRequest(msg string) *AppError { return New(http.StatusBadRequest, msg) }
func NotFound(msg string) *AppError   { return New(http.StatusNotFound, msg) }
func Conflict(msg string) *AppError   { return New(http.StatusConflict, msg) }
func Internal(msg string) *AppError   { return New(http.StatusInternalServerError, msg) }

// Response is the envelope serialized for every failed operation.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusOf extracts the status code from err, defaulting to 500 for
// unclassified errors.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// Envelope builds the {success: false, message} payload for err. Unclassified
// errors get a generic message.
func Envelope(err error) Response {
	var ae *AppError
	if errors.As(err, &ae) {
		return Response{Success: false, Message: ae.Message}
	}
	return Response{Success: false, Message: "Internal server error"}
}
