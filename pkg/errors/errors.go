package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the class of failure the fetch loop has to react to
type ErrorType string

const (
	// ErrorTypeSourceUnavailable covers resolver and download failures. Recovered per attempt.
	ErrorTypeSourceUnavailable ErrorType = "source_unavailable"
	// ErrorTypePersistence covers history and destination failures. Fatal for the run.
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeConfig covers invalid configuration detected before the run starts.
	ErrorTypeConfig ErrorType = "config"
)

// Sentinels usable with errors.Is against any *Error of the matching type
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrPersistence       = errors.New("persistence error")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Error carries the failure class plus the operation and, for HTTP failures, the status code
type Error struct {
	Type    ErrorType
	Op      string
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Type, e.Op, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel for the error's type
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSourceUnavailable:
		return e.Type == ErrorTypeSourceUnavailable
	case ErrPersistence:
		return e.Type == ErrorTypePersistence
	case ErrInvalidConfig:
		return e.Type == ErrorTypeConfig
	}
	return false
}

// SourceUnavailable wraps err as a recoverable source failure
func SourceUnavailable(op string, code int, err error) error {
	return &Error{Type: ErrorTypeSourceUnavailable, Op: op, Code: code, Err: err}
}

// SourceStatus builds a source failure from a non-success HTTP status
func SourceStatus(op string, code int) error {
	return &Error{
		Type:    ErrorTypeSourceUnavailable,
		Op:      op,
		Code:    code,
		Message: http.StatusText(code),
	}
}

// Persistence wraps err as a fatal persistence failure
func Persistence(op string, err error) error {
	return &Error{Type: ErrorTypePersistence, Op: op, Err: err}
}

// Config wraps err as a configuration failure
func Config(op string, err error) error {
	return &Error{Type: ErrorTypeConfig, Op: op, Err: err}
}

// IsSourceUnavailable reports whether err is a recoverable source failure
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsPersistence reports whether err is a fatal persistence failure
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case http.StatusTooManyRequests:
		return true
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return false
	default:
		return statusCode >= 500
	}
}

// StatusCode extracts the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
