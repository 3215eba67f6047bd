// Package ratelimit suppresses duplicate automated replies.
//
// The pipeline acquires a (caller, key) entry BEFORE composing a reply; the
// entry is what makes the no-duplicate guarantee durable, not the webhook
// response code. Acquisition must be a single atomic insert-if-absent-with-TTL
// so that near-simultaneous duplicate webhook deliveries cannot both pass.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidKey = errors.New("ratelimit: phone and key are required")

// Limiter is the atomic-intent check-and-set contract.
// CheckAndSet returns true when the entry was acquired (no active entry
// existed) and false when an active entry already suppresses this pair.
type Limiter interface {
	CheckAndSet(ctx context.Context, phone, key string, ttl time.Duration) (bool, error)
}
