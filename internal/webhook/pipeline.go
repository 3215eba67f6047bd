package webhook

import (
	"context"
	"errors"

	"smarttext/internal/directory"
	"smarttext/internal/events"
	"smarttext/internal/messaging"
	"smarttext/internal/policy"
	"smarttext/internal/reply"
	"smarttext/pkg/logger"
)

// Outcome statuses returned to the provider. Twilio ignores the body; these
// exist for logs and tests.
const (
	StatusIgnored    = "ignored"
	StatusDuplicate  = "duplicate"
	StatusRecorded   = "recorded"
	StatusSuppressed = "suppressed"
	StatusReplied    = "replied"
)

// Outcome is the result of running one delivery through the pipeline.
type Outcome struct {
	Status string `json:"status"`

	// Reason is set for suppressed deliveries (policy reason string).
	Reason string `json:"reason,omitempty"`

	// Source names the reply source that produced the text, when one was sent.
	Source string `json:"source,omitempty"`

	EventID string `json:"event_id,omitempty"`
}

// Pipeline is the inbound-delivery orchestrator: resolve, record, decide,
// compose, dispatch. Each stage is owned by its package; the pipeline only
// sequences them and decides what a failure means for the provider response.
type Pipeline struct {
	Resolver *directory.Resolver
	Events   *events.Service
	Policy   *policy.Engine
	Selector *reply.Selector
	Provider messaging.Provider
}

// HandleVoiceStatus runs a voice status callback through the pipeline.
//
// Errors returned here mean the delivery could not be processed at all
// (store down, limiter down) and the provider should retry. Everything
// past the policy decision is best-effort: a failed send is logged and
// the delivery still acks.
func (p *Pipeline) HandleVoiceStatus(ctx context.Context, f VoiceStatusForm, raw string) (Outcome, error) {
	log := logger.From(ctx).With("call_sid", f.CallSid, "call_status", string(f.CallStatus))

	tenant, err := p.Resolver.ResolveNumber(ctx, f.To)
	if errors.Is(err, directory.ErrNotFound) {
		log.Info("voice callback for unknown number", "to", f.To)
		return Outcome{Status: StatusIgnored}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	ev, inserted, err := p.Events.Record(ctx, events.CallEvent{
		BusinessID:      tenant.Business.ID,
		LocationID:      locationID(tenant),
		ProviderCallID:  f.CallSid,
		From:            f.From,
		To:              f.To,
		Type:            voiceEventType(f),
		CallStatus:      f.CallStatus,
		DurationSeconds: f.DurationSeconds,
		RawPayload:      raw,
	})
	if err != nil {
		return Outcome{}, err
	}
	if !inserted {
		log.Info("voice callback ignored", "business_id", tenant.Business.ID, "why", "duplicate or out of order")
		return Outcome{Status: StatusDuplicate}, nil
	}

	decision, err := p.Policy.Decide(ctx, policy.Input{
		Tenant:          tenant,
		Kind:            policy.KindVoice,
		CallStatus:      f.CallStatus,
		DurationSeconds: f.DurationSeconds,
		CallerNumber:    f.From,
	})
	if err != nil {
		return Outcome{}, err
	}
	if !decision.Send {
		if decision.Reason == policy.ReasonStatusNotActionable && !f.CallStatus.IsTerminal() {
			return Outcome{Status: StatusRecorded, EventID: ev.ID}, nil
		}
		log.Info("auto-reply suppressed", "business_id", tenant.Business.ID, "reason", decision.Reason)
		return Outcome{Status: StatusSuppressed, Reason: decision.Reason, EventID: ev.ID}, nil
	}

	source := p.dispatchReply(ctx, tenant, ev, reply.Input{
		Tenant: tenant,
		Kind:   reply.KindMissedCall,
	})
	return Outcome{Status: StatusReplied, Source: source, EventID: ev.ID}, nil
}

// HandleInboundSMS runs an inbound text through the pipeline.
func (p *Pipeline) HandleInboundSMS(ctx context.Context, f InboundSMSForm, raw string) (Outcome, error) {
	log := logger.From(ctx).With("message_sid", f.MessageSid)

	tenant, err := p.Resolver.ResolveNumber(ctx, f.To)
	if errors.Is(err, directory.ErrNotFound) {
		log.Info("inbound sms for unknown number", "to", f.To)
		return Outcome{Status: StatusIgnored}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	decision, err := p.Policy.Decide(ctx, policy.Input{
		Tenant:       tenant,
		Kind:         policy.KindSMS,
		Body:         f.Body,
		CallerNumber: f.From,
	})
	if err != nil {
		return Outcome{}, err
	}

	ev, inserted, err := p.Events.Record(ctx, events.CallEvent{
		BusinessID:     tenant.Business.ID,
		LocationID:     locationID(tenant),
		ProviderCallID: f.MessageSid,
		From:           f.From,
		To:             f.To,
		Type:           events.EventTypeSMSInbound,
		Body:           f.Body,
		Urgent:         decision.Urgent,
		RawPayload:     raw,
	})
	if err != nil {
		return Outcome{}, err
	}
	if !inserted {
		log.Info("inbound sms duplicate delivery", "business_id", tenant.Business.ID)
		return Outcome{Status: StatusDuplicate}, nil
	}

	// Urgent texts alert the owner regardless of whether an auto-reply goes
	// out; rate limiting the customer must not swallow the alert.
	if decision.Urgent {
		p.alertOwner(ctx, tenant, ev, f)
	}

	if !decision.Send {
		log.Info("auto-reply suppressed", "business_id", tenant.Business.ID, "reason", decision.Reason)
		return Outcome{Status: StatusSuppressed, Reason: decision.Reason, EventID: ev.ID}, nil
	}

	source := p.dispatchReply(ctx, tenant, ev, reply.Input{
		Tenant: tenant,
		Kind:   reply.KindInboundSMS,
		Body:   f.Body,
		Urgent: decision.Urgent,
	})
	return Outcome{Status: StatusReplied, Source: source, EventID: ev.ID}, nil
}

// dispatchReply composes and sends the automated reply. Failures here are
// logged and swallowed: the webhook already owes the provider a 200.
func (p *Pipeline) dispatchReply(ctx context.Context, tenant directory.Tenant, ev events.CallEvent, in reply.Input) string {
	log := logger.From(ctx).With("business_id", tenant.Business.ID, "event_id", ev.ID)

	text, source := p.Selector.Select(ctx, in)

	res, err := p.Provider.Send(ctx, tenant.SendingNumber(), ev.From, text)
	if err != nil {
		log.Error("auto-reply send failed", "provider", p.Provider.Name(), "err", err)
		return source
	}
	log.Info("auto-reply sent", "source", source, "reply_sid", res.ID)

	if err := p.Events.MarkReplyDispatched(ctx, ev.ID, res.ID, res.Status); err != nil {
		log.Error("reply dispatch record failed", "err", err)
	}
	return source
}

// alertOwner forwards an urgent inbound text to the configured owner number.
// Best-effort, same as the reply itself.
func (p *Pipeline) alertOwner(ctx context.Context, tenant directory.Tenant, ev events.CallEvent, f InboundSMSForm) {
	log := logger.From(ctx).With("business_id", tenant.Business.ID, "event_id", ev.ID)

	owner := tenant.EffectiveSettings().OwnerPhone
	if owner == "" {
		log.Warn("urgent message with no owner phone configured")
		return
	}

	body := "URGENT message to " + tenant.Business.Name + " from " + f.From + ": " + f.Body
	if _, err := p.Provider.Send(ctx, tenant.SendingNumber(), owner, body); err != nil {
		log.Error("owner alert send failed", "err", err)
		return
	}
	if err := p.Events.MarkOwnerNotified(ctx, ev.ID); err != nil {
		log.Error("owner-notified record failed", "err", err)
	}
}

func voiceEventType(f VoiceStatusForm) events.EventType {
	switch {
	case !f.CallStatus.IsTerminal():
		return events.EventTypeVoiceStatus
	case policy.MissedCall(f.CallStatus, f.DurationSeconds):
		return events.EventTypeVoiceMissed
	default:
		return events.EventTypeVoiceCompleted
	}
}

func locationID(t directory.Tenant) string {
	if t.Location != nil {
		return t.Location.ID
	}
	return ""
}
