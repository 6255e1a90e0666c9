// Package apperr defines the error taxonomy shared across the skills CLI.
// Callers classify failures with errors.Is against these sentinels.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidURL marks input that does not parse as a GitHub repository
	// reference. Never retried.
	ErrInvalidURL = errors.New("invalid GitHub URL")

	// ErrNotFound marks a remote path that does not exist. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited marks GitHub API quota exhaustion. May be retried with
	// backoff. Use errors.As with *RateLimitError to read the reset time.
	ErrRateLimited = errors.New("rate limited")

	// ErrNetwork marks a transport-level failure. May be retried.
	ErrNetwork = errors.New("network error")

	// ErrDecode marks a payload that could not be decoded. Never retried.
	ErrDecode = errors.New("malformed payload")

	// ErrCorruptRegistry marks a market registry file that exists but cannot
	// be parsed. Surfaced to the user instead of discarding their data.
	ErrCorruptRegistry = errors.New("corrupt market registry")
)

// RateLimitError carries the quota reset time when GitHub supplies one.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "rate limited"
	}
	return fmt.Sprintf("rate limited until %s", e.ResetAt.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrRateLimited) match a *RateLimitError.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// Retryable reports whether the error class may be retried with backoff.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNetwork)
}
