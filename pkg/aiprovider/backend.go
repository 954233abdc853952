// Package aiprovider abstracts one or more LLM backends behind a
// single query contract. The provider selects backends by configured
// mode (primary, secondary, dual) and retries across backends only on
// transport or availability failures, never on semantic ones.
package aiprovider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Backend is a single LLM endpoint.
type Backend interface {
	// Name returns the backend identifier ("anthropic", "openai", ...).
	Name() string

	// Query sends a prompt with an optional system prompt and returns
	// the raw text completion.
	Query(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// ErrUnavailable is returned when every configured backend failed.
var ErrUnavailable = errors.New("no ai backend available")

// BackendError wraps provider errors with status metadata.
type BackendError struct {
	Status    int
	Temporary bool
	Err       error
}

func (e *BackendError) Error() string {
	if e == nil {
		return "backend error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("backend error (status=%d)", e.Status)
}

func (e *BackendError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether an error is safe to retry on another
// backend. Semantic failures (bad prompts, refused content) are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		if backendErr.Temporary {
			return true
		}
		if backendErr.Status == 429 || (backendErr.Status >= 500 && backendErr.Status <= 599) {
			return true
		}
	}
	return false
}
