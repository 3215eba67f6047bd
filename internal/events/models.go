package events

import "time"

// CallEvent is an immutable record of one inbound webhook delivery.
//
// Invariants:
//   - business_id is required for tenancy isolation.
//   - (provider_call_id, type) is the idempotency key: redelivering the same
//     webhook collapses onto the existing row.
//   - Rows are append-only. The only permitted updates are the reply-dispatch
//     placeholder and the owner-notified flag, both written by the outbound
//     dispatcher after the fact.
type CallEvent struct {
	ID         string `json:"id" db:"id"`
	BusinessID string `json:"business_id" db:"business_id"`
	LocationID string `json:"location_id,omitempty" db:"location_id"`

	// ProviderCallID is Twilio's CallSid for voice events and MessageSid
	// for inbound SMS.
	ProviderCallID string `json:"provider_call_id" db:"provider_call_id"`

	From string `json:"from" db:"from_number"`
	To   string `json:"to" db:"to_number"`

	Type       EventType  `json:"event_type" db:"event_type"`
	CallStatus CallStatus `json:"call_status,omitempty" db:"call_status"`

	DurationSeconds int `json:"duration_seconds,omitempty" db:"duration_seconds"`

	// Body is the inbound SMS text; empty for voice events.
	Body string `json:"body,omitempty" db:"body"`

	Urgent bool `json:"urgent,omitempty" db:"urgent"`

	// ReplySID/ReplyStatus are the delivery-status placeholder for the
	// automated reply, if one was dispatched.
	ReplySID    string `json:"reply_sid,omitempty" db:"reply_sid"`
	ReplyStatus string `json:"reply_status,omitempty" db:"reply_status"`

	OwnerNotified bool `json:"owner_notified" db:"owner_notified"`

	// RawPayload is the provider's form payload, JSON-encoded, for audit.
	RawPayload string `json:"raw_payload,omitempty" db:"raw_payload"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeVoiceMissed    EventType = "voice.missed"
	EventTypeVoiceCompleted EventType = "voice.completed"
	// EventTypeVoiceStatus covers non-terminal progress callbacks (ringing,
	// in-progress) when the provider is configured to deliver them.
	EventTypeVoiceStatus EventType = "voice.status"
	EventTypeSMSInbound  EventType = "sms.inbound"
)

// CallStatus mirrors the provider call-status vocabulary.
type CallStatus string

const (
	CallStatusQueued     CallStatus = "queued"
	CallStatusRinging    CallStatus = "ringing"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusNoAnswer   CallStatus = "no-answer"
	CallStatusBusy       CallStatus = "busy"
	CallStatusFailed     CallStatus = "failed"
	CallStatusCanceled   CallStatus = "canceled"
)

// IsTerminal reports whether a status ends the call lifecycle.
// Terminal statuses are sticky: a later terminal webhook for the same call
// is out of order and must be ignored.
func (s CallStatus) IsTerminal() bool {
	switch s {
	case CallStatusCompleted, CallStatusNoAnswer, CallStatusBusy, CallStatusFailed, CallStatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a call may move from one status to another.
// The lifecycle is queued/ringing/in-progress → exactly one terminal status.
func CanTransition(from, to CallStatus) bool {
	if from == "" {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	switch from {
	case CallStatusQueued:
		return to != CallStatusQueued
	case CallStatusRinging:
		return to != CallStatusQueued && to != CallStatusRinging
	case CallStatusInProgress:
		return to.IsTerminal()
	default:
		return false
	}
}
