package scheduler

import (
	"errors"
	"strings"
)

// transientMarkers are substrings of error messages known to be temporary service or network conditions.
// "onnection aborted" matches both capitalizations on purpose.
var transientMarkers = []string{
	"Gateway Time",
	"timed out",
	"ConnectionPool",
	"Connection reset",
	"Server Error",
	"try again",
	"Too Big",
	"onnection aborted",
}

// TransientError marks an error as temporary regardless of its message
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error
func (e *TransientError) Unwrap() error { return e.Err }

// Transient always reports true
func (e *TransientError) Transient() bool { return true }

// IsTransient reports whether the cycle failure is worth a retry after backoff.
// Errors reporting Transient() == true anywhere in the chain are transient,
// everything else is classified by message against the known markers.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te interface{ Transient() bool }
	if errors.As(err, &te) && te.Transient() {
		return true
	}

	msg := err.Error()
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
