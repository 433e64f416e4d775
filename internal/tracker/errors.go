package tracker

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigurationError indicates a required setting is missing or invalid
// (unknown backend, unresolvable repository URL, missing token). It is
// fatal to the calling command and never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// IsConfiguration reports whether err (or any error in its chain) is a
// ConfigurationError.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// ValidationError indicates the caller supplied a malformed or
// out-of-domain argument, or a backend payload violated a construction
// invariant. It is raised before any network call when detectable locally.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err (or any error in its chain) is a
// ValidationError.
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// BackendError wraps a non-success HTTP response, a transport failure, or
// a malformed backend payload. It is the only error kind that crosses the
// adapter boundary for remote failures; no automatic retry is performed.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return e.Message
}

// NotFound reports whether the error was produced from a 404 response.
func (e *BackendError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Backendf builds a BackendError carrying no HTTP status.
func Backendf(format string, args ...any) *BackendError {
	return &BackendError{Message: fmt.Sprintf(format, args...)}
}

// StatusError builds a BackendError from an HTTP status code. A 404 is
// rendered as "not found"; everything else as "<code> <reason>".
func StatusError(code int) *BackendError {
	if code == http.StatusNotFound {
		return &BackendError{StatusCode: code, Message: "not found"}
	}
	reason := http.StatusText(code)
	if reason == "" {
		reason = "unknown status"
	}
	return &BackendError{
		StatusCode: code,
		Message:    fmt.Sprintf("%d %s", code, reason),
	}
}

// IsBackend reports whether err (or any error in its chain) is a
// BackendError.
func IsBackend(err error) bool {
	var beErr *BackendError
	return errors.As(err, &beErr)
}

// IsNotFound reports whether err is a BackendError produced from a 404.
func IsNotFound(err error) bool {
	var beErr *BackendError
	return errors.As(err, &beErr) && beErr.NotFound()
}
