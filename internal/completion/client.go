// Package completion wraps the external language-model text-generation API.
//
// Failures here must never surface as pipeline failures: callers treat any
// error as "no completion available" and fall through to static templates.
package completion

import (
	"context"
	"errors"
)

var (
	ErrEmptyCompletion = errors.New("completion: empty response")
	ErrUnavailable     = errors.New("completion: service unavailable")
)

// Client is the minimal contract the reply pipeline depends on.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}
