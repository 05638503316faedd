package utils

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// IsTransientError classifies failures worth retrying: network timeouts and
// broken connections. Constraint violations, malformed configuration and
// other logical errors are permanent and must not be retried.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// pgx reports closed pools and dropped connections as plain errors.
	msg := err.Error()
	for _, marker := range []string{
		"connection reset",
		"connection refused",
		"conn closed",
		"broken pipe",
		"i/o timeout",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
