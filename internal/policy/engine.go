package policy

import (
	"context"
	"errors"
	"time"

	"smarttext/internal/directory"
	"smarttext/internal/events"
	"smarttext/internal/ratelimit"
)

// Engine decides whether an automated reply should be sent for an inbound
// webhook delivery.
//
// Rule order:
//  1. auto-reply setting (absent defaults to enabled)
//  2. call-outcome gating (voice only; SMS always passes)
//  3. duplicate suppression via the rate limiter
//
// The rate-limit entry is written inside Decide, before any reply is
// composed: the no-duplicate guarantee must hold even if the process
// crashes between deciding and sending.
//
// Return a decision only. No reply composition and no provider calls here.
type Engine struct {
	Limiter      ratelimit.Limiter
	RateLimitTTL time.Duration

	Now func() time.Time
}

// Decision is the engine output.
type Decision struct {
	Send   bool   `json:"send"`
	Reason string `json:"reason"`

	// Urgent influences reply content and triggers the owner alert;
	// it never gates sending.
	Urgent bool `json:"urgent"`
}

// Decision reasons. Stable strings; they end up in logs and tests.
const (
	ReasonOK                  = "ok"
	ReasonAutoReplyDisabled   = "auto_reply_disabled"
	ReasonStatusNotActionable = "status_not_actionable"
	ReasonRateLimited         = "rate_limited"
)

// Input is the per-delivery decision context.
type Input struct {
	Tenant directory.Tenant

	Kind EventKind

	// CallStatus/DurationSeconds apply to voice deliveries.
	CallStatus      events.CallStatus
	DurationSeconds int

	// Body applies to inbound SMS.
	Body string

	// CallerNumber is the caller to be rate-limited (E.164).
	CallerNumber string
}

type EventKind string

const (
	KindVoice EventKind = "voice"
	KindSMS   EventKind = "sms"
)

func NewEngine(limiter ratelimit.Limiter, ttl time.Duration) *Engine {
	return &Engine{Limiter: limiter, RateLimitTTL: ttl, Now: time.Now}
}

func (e *Engine) Decide(ctx context.Context, in Input) (Decision, error) {
	if in.Tenant.Business.ID == "" {
		return Decision{}, errors.New("policy: tenant required")
	}
	if in.CallerNumber == "" {
		return Decision{}, errors.New("policy: caller number required")
	}

	urgent := in.Kind == KindSMS && IsUrgent(in.Body)

	settings := in.Tenant.EffectiveSettings()
	if !settings.AutoReplyOn() {
		return Decision{Send: false, Reason: ReasonAutoReplyDisabled, Urgent: urgent}, nil
	}

	if in.Kind == KindVoice && !MissedCall(in.CallStatus, in.DurationSeconds) {
		return Decision{Send: false, Reason: ReasonStatusNotActionable, Urgent: urgent}, nil
	}

	if e.Limiter == nil {
		return Decision{}, errors.New("policy: rate limiter not configured")
	}
	ttl := e.RateLimitTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	acquired, err := e.Limiter.CheckAndSet(ctx, in.CallerNumber, rateLimitKey(in.Tenant), ttl)
	if err != nil {
		return Decision{}, err
	}
	if !acquired {
		return Decision{Send: false, Reason: ReasonRateLimited, Urgent: urgent}, nil
	}

	return Decision{Send: true, Reason: ReasonOK, Urgent: urgent}, nil
}

// MissedCall reports whether a voice status warrants an auto-reply.
// A completed call with zero connected duration is treated as missed:
// it usually means the forward rang out without an answer.
func MissedCall(status events.CallStatus, durationSeconds int) bool {
	switch status {
	case events.CallStatusNoAnswer, events.CallStatusBusy, events.CallStatusFailed:
		return true
	case events.CallStatusCompleted:
		return durationSeconds == 0
	default:
		return false
	}
}

func rateLimitKey(t directory.Tenant) string {
	if t.Location != nil {
		return t.Business.ID + ":" + t.Location.ID
	}
	return t.Business.ID
}
