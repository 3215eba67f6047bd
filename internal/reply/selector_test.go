package reply

import (
	"context"
	"errors"
	"strings"
	"testing"

	"smarttext/internal/directory"
)

func pizzaTenant() directory.Tenant {
	return directory.Tenant{Business: directory.Business{
		ID:   "biz-1",
		Name: "Joe's Pizza",
		Type: directory.TypeRestaurant,
	}}
}

type stubSource struct {
	name string
	text string
	ok   bool
	err  error
}

func (s stubSource) Name() string { return s.name }
func (s stubSource) TryAnswer(context.Context, Input) (string, bool, error) {
	return s.text, s.ok, s.err
}

func TestSelectFirstMatchWins(t *testing.T) {
	sel := NewSelector(nil,
		stubSource{name: "first", text: "from first", ok: true},
		stubSource{name: "second", text: "from second", ok: true},
	)
	text, source := sel.Select(context.Background(), Input{Tenant: pizzaTenant(), Kind: KindInboundSMS})
	if text != "from first" || source != "first" {
		t.Fatalf("got (%q, %q), want first source", text, source)
	}
}

func TestSelectErrorFallsThrough(t *testing.T) {
	sel := NewSelector(nil,
		stubSource{name: "broken", err: errors.New("upstream down")},
		stubSource{name: "next", text: "recovered", ok: true},
	)
	text, source := sel.Select(context.Background(), Input{Tenant: pizzaTenant(), Kind: KindInboundSMS})
	if text != "recovered" || source != "next" {
		t.Fatalf("got (%q, %q), want fallthrough to next", text, source)
	}
}

func TestSelectEmptyChainFloor(t *testing.T) {
	sel := NewSelector(nil)
	text, source := sel.Select(context.Background(), Input{Tenant: pizzaTenant(), Kind: KindMissedCall})
	if source != "floor" {
		t.Fatalf("source = %q, want floor", source)
	}
	if !strings.Contains(text, "Joe's Pizza") {
		t.Fatalf("floor reply missing business name: %q", text)
	}
	if !strings.Contains(text, "hours, menu, or reservations") {
		t.Fatalf("floor reply missing restaurant options: %q", text)
	}
}

func TestFAQBeatsOrderingAndGeneric(t *testing.T) {
	tenant := pizzaTenant()
	tenant.Business.Settings.OrderingURL = "https://order.joespizza.example"
	tenant.Business.Settings.FAQs = []directory.FAQ{
		{Question: "Do you deliver?", Answer: "Yes, we deliver within 5 miles."},
	}
	sel := NewSelector(nil, FAQSource{}, OrderingSource{}, GenericSource{})

	text, source := sel.Select(context.Background(), Input{
		Tenant: tenant,
		Kind:   KindInboundSMS,
		Body:   "do you deliver??",
	})
	if source != "faq" {
		t.Fatalf("source = %q, want faq", source)
	}
	if text != "Yes, we deliver within 5 miles." {
		t.Fatalf("text = %q", text)
	}
}

func TestOrderingIntentUsesURL(t *testing.T) {
	tenant := pizzaTenant()
	tenant.Business.Settings.OrderingURL = "https://order.joespizza.example"
	sel := NewSelector(nil, FAQSource{}, OrderingSource{}, GenericSource{})

	text, source := sel.Select(context.Background(), Input{
		Tenant: tenant,
		Kind:   KindInboundSMS,
		Body:   "can I place an order for pickup",
	})
	if source != "ordering" {
		t.Fatalf("source = %q, want ordering", source)
	}
	if !strings.Contains(text, "https://order.joespizza.example") {
		t.Fatalf("reply missing ordering link: %q", text)
	}
}

func TestMissedCallSkipsTextOnlySources(t *testing.T) {
	tenant := pizzaTenant()
	tenant.Business.Settings.OrderingURL = "https://order.joespizza.example"
	tenant.Business.Settings.FAQs = []directory.FAQ{
		{Question: "What are your hours?", Answer: "11am to 10pm daily."},
	}
	sel := NewSelector(nil, FAQSource{}, OrderingSource{}, GenericSource{})

	text, source := sel.Select(context.Background(), Input{Tenant: tenant, Kind: KindMissedCall})
	if source != "generic" {
		t.Fatalf("source = %q, want generic", source)
	}
	if !strings.Contains(text, "Sorry we missed you") {
		t.Fatalf("missed-call reply wrong shape: %q", text)
	}
}

func TestGenericUsesConfiguredOptions(t *testing.T) {
	tenant := pizzaTenant()
	tenant.Business.Settings.ReplyOptions = []string{"catering", "gift cards"}
	sel := NewSelector(nil, GenericSource{})

	text, _ := sel.Select(context.Background(), Input{Tenant: tenant, Kind: KindInboundSMS, Body: "hi"})
	if !strings.Contains(text, "catering or gift cards") {
		t.Fatalf("reply missing configured options: %q", text)
	}
}

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Complete(context.Context, string, int, float64) (string, error) {
	return s.text, s.err
}

func TestAISourceDegradesToGeneric(t *testing.T) {
	sel := NewSelector(nil,
		AISource{Client: stubCompleter{err: errors.New("timeout")}},
		GenericSource{},
	)
	_, source := sel.Select(context.Background(), Input{Tenant: pizzaTenant(), Kind: KindInboundSMS, Body: "hello"})
	if source != "generic" {
		t.Fatalf("source = %q, want generic after completion failure", source)
	}
}

func TestAISourceCapsLength(t *testing.T) {
	long := strings.Repeat("pizza toppings ", 40)
	src := AISource{Client: stubCompleter{text: long}}
	text, ok, err := src.TryAnswer(context.Background(), Input{Tenant: pizzaTenant(), Kind: KindInboundSMS, Body: "hi"})
	if err != nil || !ok {
		t.Fatalf("TryAnswer: ok=%v err=%v", ok, err)
	}
	if len(text) > maxReplyLength {
		t.Fatalf("reply length %d exceeds cap %d", len(text), maxReplyLength)
	}
}

func TestFAQTokenOverlapMatch(t *testing.T) {
	tenant := pizzaTenant()
	tenant.Business.Settings.FAQs = []directory.FAQ{
		{Question: "Are you open on holidays?", Answer: "Closed on major holidays."},
	}
	src := FAQSource{}
	text, ok, err := src.TryAnswer(context.Background(), Input{
		Tenant: tenant,
		Kind:   KindInboundSMS,
		Body:   "hey are you guys open on holidays this year",
	})
	if err != nil || !ok {
		t.Fatalf("TryAnswer: ok=%v err=%v", ok, err)
	}
	if text != "Closed on major holidays." {
		t.Fatalf("text = %q", text)
	}
}
