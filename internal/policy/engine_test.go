package policy

import (
	"context"
	"testing"
	"time"

	"smarttext/internal/directory"
	"smarttext/internal/events"
	"smarttext/internal/ratelimit"
)

func tenant(id string) directory.Tenant {
	return directory.Tenant{Business: directory.Business{ID: id, Name: "Joe's Pizza", Type: directory.TypeRestaurant}}
}

func TestDecide_NoAnswerTriggersSend(t *testing.T) {
	e := NewEngine(ratelimit.NewMemoryLimiter(), time.Hour)

	d, err := e.Decide(context.Background(), Input{
		Tenant:       tenant("b1"),
		Kind:         KindVoice,
		CallStatus:   events.CallStatusNoAnswer,
		CallerNumber: "+12125550000",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if !d.Send || d.Reason != ReasonOK {
		t.Fatalf("expected send, got %+v", d)
	}
}

func TestDecide_ConnectedCallNeverReplies(t *testing.T) {
	e := NewEngine(ratelimit.NewMemoryLimiter(), time.Hour)

	d, err := e.Decide(context.Background(), Input{
		Tenant:          tenant("b1"),
		Kind:            KindVoice,
		CallStatus:      events.CallStatusCompleted,
		DurationSeconds: 42,
		CallerNumber:    "+12125550000",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Send {
		t.Fatalf("completed call with non-zero duration must not trigger a reply")
	}
	if d.Reason != ReasonStatusNotActionable {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestDecide_ZeroDurationCompletedCountsAsMissed(t *testing.T) {
	e := NewEngine(ratelimit.NewMemoryLimiter(), time.Hour)

	d, _ := e.Decide(context.Background(), Input{
		Tenant:       tenant("b1"),
		Kind:         KindVoice,
		CallStatus:   events.CallStatusCompleted,
		CallerNumber: "+12125550000",
	})
	if !d.Send {
		t.Fatalf("zero-duration completed call should be treated as missed")
	}
}

func TestDecide_AutoReplyDisabled(t *testing.T) {
	off := false
	tn := tenant("b1")
	tn.Business.Settings.AutoReplyEnabled = &off

	e := NewEngine(ratelimit.NewMemoryLimiter(), time.Hour)
	d, _ := e.Decide(context.Background(), Input{
		Tenant:       tn,
		Kind:         KindVoice,
		CallStatus:   events.CallStatusNoAnswer,
		CallerNumber: "+12125550000",
	})
	if d.Send || d.Reason != ReasonAutoReplyDisabled {
		t.Fatalf("expected auto_reply_disabled, got %+v", d)
	}
}

func TestDecide_SecondDeliveryRateLimited(t *testing.T) {
	e := NewEngine(ratelimit.NewMemoryLimiter(), time.Hour)
	in := Input{
		Tenant:       tenant("b1"),
		Kind:         KindVoice,
		CallStatus:   events.CallStatusNoAnswer,
		CallerNumber: "+12125550000",
	}

	if d, _ := e.Decide(context.Background(), in); !d.Send {
		t.Fatalf("first decision should send")
	}
	d, _ := e.Decide(context.Background(), in)
	if d.Send || d.Reason != ReasonRateLimited {
		t.Fatalf("expected rate_limited on second decision, got %+v", d)
	}
}

func TestDecide_UrgentSMSFlagsButDoesNotGate(t *testing.T) {
	e := NewEngine(ratelimit.NewMemoryLimiter(), time.Hour)

	d, _ := e.Decide(context.Background(), Input{
		Tenant:       tenant("b1"),
		Kind:         KindSMS,
		Body:         "Our basement is leaking, this is an emergency!",
		CallerNumber: "+12125550000",
	})
	if !d.Send {
		t.Fatalf("urgent SMS should still send")
	}
	if !d.Urgent {
		t.Fatalf("expected urgent flag")
	}

	// Urgency is detected even when sending is suppressed.
	off := false
	tn := tenant("b2")
	tn.Business.Settings.AutoReplyEnabled = &off
	d, _ = e.Decide(context.Background(), Input{
		Tenant:       tn,
		Kind:         KindSMS,
		Body:         "urgent please call back",
		CallerNumber: "+12125550000",
	})
	if d.Send {
		t.Fatalf("disabled auto-reply must not send")
	}
	if !d.Urgent {
		t.Fatalf("urgency should be reported independently of gating")
	}
}

func TestIsUrgent(t *testing.T) {
	if IsUrgent("what are your hours?") {
		t.Fatalf("plain question must not be urgent")
	}
	if !IsUrgent("We have NO POWER since the storm") {
		t.Fatalf("case-insensitive keyword match expected")
	}
	if IsUrgent("") {
		t.Fatalf("empty body is never urgent")
	}
}
