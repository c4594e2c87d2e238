package api

import (
	"context"
	"errors"
	"net/http"
)

// RequestError is returned for transport failures and non-2xx responses.
// Status is zero when the request never produced a response.
type RequestError struct {
	Method     string
	Path       string
	Status     int
	StatusText string
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsCanceled reports whether err comes from a cancelled request
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
