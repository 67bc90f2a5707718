package llm

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

// retryable reports whether an error is worth retrying. Rate limits, request
// timeouts and server-side failures are transient; every other provider
// rejection is final.
func retryable(err error) bool {
	if err == nil {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests, http.StatusRequestTimeout,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return gerr.Code >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return false // the caller's deadline, not the provider's
	}

	// The genai SDK wraps some transport failures without a typed error.
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "quota", "unavailable", "overloaded", "timeout", "connection reset"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// translate converts a non-retryable provider error into a user-facing
// RequestError.
func translate(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &RequestError{StatusCode: gerr.Code, Message: "invalid credentials", Cause: err}
		case http.StatusBadRequest:
			return &RequestError{StatusCode: gerr.Code, Message: "malformed request", Cause: err}
		default:
			return &RequestError{StatusCode: gerr.Code, Message: "request rejected by provider", Cause: err}
		}
	}
	return err
}

// backoffDelay computes the delay before retry number attempt (0-based),
// capped at MaxDelay with ±JitterFraction of jitter applied.
func (rc RetryConfig) backoffDelay(attempt int) time.Duration {
	d := float64(rc.InitialDelay) * math.Pow(rc.Multiplier, float64(attempt))
	if max := float64(rc.MaxDelay); d > max {
		d = max
	}
	if rc.JitterFraction > 0 {
		// rand in [-jitter, +jitter]
		d *= 1 + rc.JitterFraction*(2*rand.Float64()-1)
	}
	return time.Duration(d)
}

// withRetry runs call up to 1+MaxRetries times, sleeping between attempts and
// honoring context cancellation. Non-retryable errors fail immediately with a
// translated message; exhaustion returns a TransientError.
func withRetry(ctx context.Context, rc RetryConfig, call func() (string, error)) (string, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, rc.backoffDelay(attempt-1)); err != nil {
				return "", err
			}
		}

		text, err := call()
		attempts++
		if err == nil {
			return text, nil
		}
		if !retryable(err) {
			return "", translate(err)
		}
		lastErr = err
	}

	return "", &TransientError{Attempts: attempts, Cause: lastErr}
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
