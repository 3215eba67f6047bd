// Package messaging is the outbound SMS boundary.
//
// Rules:
// - No provider SDK calls outside this package.
// - Keep request/response types provider-agnostic.
package messaging

import "context"

// SendResult is the provider acknowledgment for a dispatched message.
type SendResult struct {
	// ID is the provider's message identifier (Twilio MessageSid).
	ID string `json:"id"`
	// Status is the provider's initial delivery status ("queued", "sent", ...).
	Status string `json:"status"`
}

// Provider sends SMS. from and to are E.164.
type Provider interface {
	Name() string
	Send(ctx context.Context, from, to, body string) (SendResult, error)
}
