// Package llm defines the AI suggestion contract shared by the relay client,
// the upstream providers, and their callers.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Suggester turns a free-text prompt into generated text. Implementations
// make exactly one attempt per call.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned when no credential or relay endpoint is set.
var ErrNotConfigured = errors.New("ai suggestion backend not configured")

// NetworkError wraps a transport failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("ai network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-success answer from the upstream service, including an
// explicit content-safety block.
type APIError struct {
	Code    int
	Message string
	Details any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ai api error %d: %s", e.Code, e.Message)
}

// ProtocolError means a success response did not carry the generated text.
type ProtocolError struct {
	Reason  string
	Details any
}

func (e *ProtocolError) Error() string {
	return "ai protocol error: " + e.Reason
}

// IsTransient reports whether err is a network or upstream failure that the
// caller may retry by hand.
func IsTransient(err error) bool {
	var netErr *NetworkError
	var apiErr *APIError
	return errors.As(err, &netErr) || errors.As(err, &apiErr)
}

// Unconfigured is the Suggester used when no provider is wired.
type Unconfigured struct{}

// Suggest returns ErrNotConfigured.
func (Unconfigured) Suggest(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Func adapts a function to Suggester.
type Func func(ctx context.Context, prompt string) (string, error)

// Suggest calls f.
func (f Func) Suggest(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
