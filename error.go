package linkminer

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Application error codes.
const (
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	EMALFORMED = "malformed_url"
	EFETCH     = "fetch_failure"
	ETIMEOUT   = "timeout"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("linkminer error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Fetch failures report ETIMEOUT or EFETCH.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var ff *FetchFailure
	if errors.As(err, &ff) {
		if ff.Timeout() {
			return ETIMEOUT
		}
		return EFETCH
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var ff *FetchFailure
	if errors.As(err, &ff) {
		return ff.Error()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// FetchFailure reports that a page could not be retrieved: a transport error,
// a non-success response or a timeout. Failures are local to one branch of a
// crawl and never abort it.
type FetchFailure struct {
	URL   string
	Cause error
}

// NewFetchFailure wraps cause as a FetchFailure for url.
// If cause already is a FetchFailure it is returned unchanged.
func NewFetchFailure(url string, cause error) *FetchFailure {
	var ff *FetchFailure
	if errors.As(cause, &ff) {
		return ff
	}
	return &FetchFailure{URL: url, Cause: cause}
}

// Error implements the error interface.
func (f *FetchFailure) Error() string {
	if f.Timeout() {
		return fmt.Sprintf("fetch %s: timeout: %v", f.URL, f.Cause)
	}
	return fmt.Sprintf("fetch %s: %v", f.URL, f.Cause)
}

// Unwrap returns the underlying cause.
func (f *FetchFailure) Unwrap() error {
	return f.Cause
}

// Timeout reports whether the failure was caused by the fetch deadline.
func (f *FetchFailure) Timeout() bool {
	return IsTimeout(f.Cause)
}

// IsTimeout reports whether err was caused by a deadline: a context
// deadline, a network timeout or an ETIMEOUT application error.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return ErrorCode(err) == ETIMEOUT
}
