package reddit

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// errCritical stops auth retries, matched by criticalError.Is
var errCritical = errors.New("critical error")

// criticalError wraps errors which should not be retried
type criticalError struct {
	err error
}

func (e *criticalError) Error() string        { return e.err.Error() }
func (e *criticalError) Unwrap() error        { return e.err }
func (e *criticalError) Is(target error) bool { return target == errCritical }

// apiError is a non-200 response from reddit. The message carries the standard status text,
// i.e. "504 Gateway Timeout", as this is what operators see in logs and alerts.
type apiError struct {
	op   string
	code int
}

func (e *apiError) Error() string {
	return fmt.Sprintf("reddit %s: %d %s", e.op, e.code, http.StatusText(e.code))
}

// Transient reports whether the request is worth repeating later
func (e *apiError) Transient() bool {
	return e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}

// StatusCode returns http status of the failed response
func (e *apiError) StatusCode() int { return e.code }

// transportError is a failure to get any response at all
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// Transient reports resets, aborts and timeouts as temporary
func (e *transportError) Transient() bool {
	if errors.Is(e.err, syscall.ECONNRESET) || errors.Is(e.err, syscall.ECONNABORTED) || errors.Is(e.err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	return errors.As(e.err, &netErr) && netErr.Timeout()
}

// wrapTransport wraps http client errors, timeouts get a "timed out" message
func wrapTransport(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &transportError{err: fmt.Errorf("request timed out: %w", err)}
	}
	return &transportError{err: fmt.Errorf("request failed: %w", err)}
}
