package llm

import "fmt"

// ConfigError reports a fatal client configuration problem (missing or
// malformed credential, no model for a tier). Never retried.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("llm config error: %s", e.Message)
}

// TransientError wraps a remote failure that is expected to succeed if
// retried. Attempts records how many calls were made before giving up.
type TransientError struct {
	Attempts int
	Cause    error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient generation error after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// RequestError reports a non-retryable provider rejection, translated into a
// message safe to surface to users.
type RequestError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generation request rejected (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generation request rejected: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// EmptyResponseError indicates the provider returned no usable text.
type EmptyResponseError struct {
	Detail string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty model response: %s", e.Detail)
}
