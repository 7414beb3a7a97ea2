package cosmos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Validation sentinels returned before any network I/O.
var (
	// ErrIDRequired indicates a definition without the mandatory id field.
	ErrIDRequired = errors.New("resource id is required")
	// ErrIDInvalid indicates an id containing characters the service rejects.
	ErrIDInvalid = errors.New("resource id contains invalid characters")
	// ErrBodyRequired indicates a script definition without a body.
	ErrBodyRequired = errors.New("script body is required")
)

// Error is the service-originated error surfaced by every operation.
// It carries the HTTP status, the service error code, and the activity ID
// for support correlation.
type Error struct {
	// Status is the HTTP status code of the failed response.
	Status int
	// Code is the service error code, e.g. "NotFound" or "Conflict".
	Code string
	// Message is the service-provided error message.
	Message string
	// ActivityID correlates the failure with service-side diagnostics.
	ActivityID string
	// Retry is the server-suggested delay before the next attempt, when the
	// response carried one.
	Retry time.Duration
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("cosmos: ")
	if e.Code != "" {
		b.WriteString(e.Code)
	} else {
		b.WriteString(http.StatusText(e.Status))
	}
	fmt.Fprintf(&b, " (%d)", e.Status)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.ActivityID != "" {
		fmt.Fprintf(&b, " [activity %s]", e.ActivityID)
	}
	return b.String()
}

// StatusCode returns the HTTP status code of the failed response.
func (e *Error) StatusCode() int {
	return e.Status
}

// Retryable reports whether the request may be attempted again unchanged.
func (e *Error) Retryable() bool {
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}

// RetryAfter returns the server-suggested delay before the next attempt.
func (e *Error) RetryAfter() time.Duration {
	return e.Retry
}

// IsNotFound reports whether err is a service error with status 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether err is a service error with status 409,
// returned when creating a resource whose id already exists.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsPreconditionFailed reports whether err is a service error with status
// 412, returned when an if-match etag no longer matches.
func IsPreconditionFailed(err error) bool {
	return hasStatus(err, http.StatusPreconditionFailed)
}

// IsThrottled reports whether err is a service error with status 429.
func IsThrottled(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, status int) bool {
	var se *Error
	return errors.As(err, &se) && se.Status == status
}

// serviceErrorBody is the JSON error envelope returned by the service.
type serviceErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newServiceError builds an *Error from a non-2xx response.
func newServiceError(status int, body []byte, header http.Header) *Error {
	e := &Error{
		Status:     status,
		ActivityID: header.Get(headerActivityID),
	}

	var envelope serviceErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Code != "" {
		e.Code = envelope.Code
		e.Message = envelope.Message
	} else {
		e.Message = strings.TrimSpace(string(body))
	}

	if ms := header.Get(headerRetryAfterMS); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			e.Retry = time.Duration(v) * time.Millisecond
		}
	}

	return e
}
