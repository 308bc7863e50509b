package client

import (
	"math"
	"time"
)

// RetryPolicy decides whether a failed idempotent call should be retried.
// err is the classified error of the last attempt, usually an [*Error].
type RetryPolicy func(err error) bool

// DefaultRetryPolicy is the default retry condition used by [Client]. It
// retries network errors, HTTP 429 (rate limit) and 5xx server errors.
// A client timeout is a network error and is retried; a cancelled context
// is not. Validation, authentication, not-found and business errors are
// never retried.
//
// Independently of the policy, retrying stops once the caller's context
// is done.
//
// Supply a custom function via [WithRetryPolicy] to override this behaviour.
// The policy is only consulted for GET and DELETE.
func DefaultRetryPolicy(err error) bool {
	return IsRetryable(err)
}

// backoff returns the wait before retry number attempt (1-based):
// base * 2^attempt, capped at limit.
func backoff(base, limit time.Duration, attempt int) time.Duration {
	delay := float64(base) * math.Pow(2, float64(attempt))
	if delay > float64(limit) {
		return limit
	}
	return time.Duration(delay)
}
