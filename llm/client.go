// Package llm wraps the optional language-model collaborator.
package llm

import (
	"context"
	"errors"
	"strings"
)

const maxFailureReasonLength = 80

var (
	ErrLLMUnavailable     = errors.New("llm client unavailable")
	ErrInvalidLLMResponse = errors.New("invalid llm response")
)

// Client completes a system+user prompt pair and returns raw model text.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, system, user string) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// Name reports a generic client name.
func (f ClientFunc) Name() string {
	return "custom"
}

// Available reports whether c can be used.
func Available(c Client) bool {
	if c == nil {
		return false
	}
	if g, ok := c.(*GeminiClient); ok && g == nil {
		return false
	}
	return true
}

// FailureNote formats an LLM failure for analysis method and reason labels.
func FailureNote(err error) string {
	reason := "unknown error"
	if err != nil {
		reason = strings.Join(strings.Fields(err.Error()), " ")
	}
	if r := []rune(reason); len(r) > maxFailureReasonLength {
		reason = string(r[:maxFailureReasonLength])
	}
	return "AI unavailable: " + reason
}
