package directory

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+18180000000", "+18180000000"},
		{"8180000000", "+18180000000"},
		{"18180000000", "+18180000000"},
		{"(818) 000-0000", "+18180000000"},
		{" +44 20 7946 0958 ", "+442079460958"},
		{"anonymous", ""},
		{"", ""},
		{"123", ""},
	}
	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveNumber_LocationBeforeBusiness(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Businesses = []Business{
		{ID: "b1", Name: "Joe's Pizza", TwilioPhone: "+18180000000", CreatedAt: time.Unix(100, 0)},
	}
	repo.Locations = []Location{
		{ID: "l1", BusinessID: "b1", Name: "Downtown", TwilioPhone: "+18180000000", CreatedAt: time.Unix(200, 0)},
	}

	tn, err := NewResolver(repo).ResolveNumber(context.Background(), "+18180000000")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tn.Location == nil || tn.Location.ID != "l1" {
		t.Fatalf("expected location-level match, got %+v", tn)
	}
	if tn.Business.ID != "b1" {
		t.Fatalf("expected parent business, got %+v", tn.Business)
	}
}

func TestResolveNumber_MostRecentWins(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Businesses = []Business{
		{ID: "old", PublicPhone: "+12125550000", CreatedAt: time.Unix(100, 0)},
		{ID: "new", PublicPhone: "+12125550000", CreatedAt: time.Unix(500, 0)},
	}

	tn, err := NewResolver(repo).ResolveNumber(context.Background(), "+12125550000")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tn.Business.ID != "new" {
		t.Fatalf("expected most-recent business, got %q", tn.Business.ID)
	}
}

func TestResolveNumber_NotFound(t *testing.T) {
	_, err := NewResolver(NewMemoryRepo()).ResolveNumber(context.Background(), "+19990000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTenant_EffectiveSettingsAndSendingNumber(t *testing.T) {
	off := false
	biz := Business{
		TwilioPhone: "+18180000000",
		Settings: Settings{
			OwnerPhone:   "+15550001111",
			ReplyOptions: []string{"hours", "menu"},
		},
	}
	loc := &Location{
		TwilioPhone: "+18182222222",
		Overrides:   SettingsOverrides{AutoReplyEnabled: &off, OwnerPhone: "+15559998888"},
	}

	tn := Tenant{Business: biz, Location: loc}
	s := tn.EffectiveSettings()
	if s.AutoReplyOn() {
		t.Fatalf("expected location override to disable auto-reply")
	}
	if s.OwnerPhone != "+15559998888" {
		t.Fatalf("expected overridden owner phone, got %q", s.OwnerPhone)
	}
	if len(s.ReplyOptions) != 2 {
		t.Fatalf("expected parent reply options to survive, got %v", s.ReplyOptions)
	}
	if tn.SendingNumber() != "+18182222222" {
		t.Fatalf("expected location sending number, got %q", tn.SendingNumber())
	}

	if !(Settings{}).AutoReplyOn() {
		t.Fatalf("absent auto_reply_enabled must default to true")
	}
}
