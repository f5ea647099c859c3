package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrStatus is an endpoint answer with status >= 400.
type ErrStatus struct {
	Code      int
	Message   string
	RequestID string
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("endpoint returned %d: %s", e.Code, e.Message)
}

// ErrMalformedResponse means something other than the endpoint surface
// answered, e.g. a static file server.
type ErrMalformedResponse struct {
	StatusCode  int
	ContentType string
	Err         error
}

func (e *ErrMalformedResponse) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response (status %d, content type %q): %v", e.StatusCode, e.ContentType, e.Err)
	}
	return fmt.Sprintf("malformed response (status %d, content type %q)", e.StatusCode, e.ContentType)
}

func (e *ErrMalformedResponse) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the call never got an answer from the endpoint
// surface. Cancellation of the caller's context is not a transport failure.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *ErrStatus
	if errors.As(err, &statusErr) {
		return false
	}
	// A non-JSON 4xx is still a rejection of the request itself.
	var malformed *ErrMalformedResponse
	if errors.As(err, &malformed) {
		return malformed.StatusCode < http.StatusBadRequest || malformed.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func IsNotFound(err error) bool {
	return hasStatus(err, func(code int) bool { return code == http.StatusNotFound })
}

// IsValidation covers rejected input, including conflicts.
func IsValidation(err error) bool {
	return hasStatus(err, func(code int) bool {
		return code == http.StatusBadRequest || code == http.StatusConflict || code == http.StatusUnprocessableEntity
	})
}

func IsServerError(err error) bool {
	return hasStatus(err, func(code int) bool { return code >= http.StatusInternalServerError })
}

func hasStatus(err error, match func(int) bool) bool {
	var statusErr *ErrStatus
	return errors.As(err, &statusErr) && match(statusErr.Code)
}
