package audit

import (
	"context"
	"testing"
)

func TestService_AppendRequiresBusinessAndType(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Append(context.Background(), Event{Type: EventTypeSettingsUpdated}); err == nil {
		t.Fatalf("expected error")
	}
	if err := svc.Append(context.Background(), Event{BusinessID: "b"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_AppendsImmutableEvents(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ev := SettingsUpdateEvent("b", "u", "owner", "1.2.3.4", "{}")
	if err := svc.Append(context.Background(), ev); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got := repo.Records()
	if len(got) != 1 {
		t.Fatalf("expected 1 event")
	}
	if got[0].IPAddress != "1.2.3.4" {
		t.Fatalf("expected ip captured")
	}
	if got[0].Type != EventTypeSettingsUpdated {
		t.Fatalf("expected settings_updated")
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp assigned: %+v", got[0])
	}
}

func TestService_AppendTxFillsEventLikeAppend(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.AppendTx(context.Background(), nil, Event{}); err == nil {
		t.Fatalf("expected validation error")
	}

	ev := SettingsUpdateEvent("b", "u", "owner", "", `{"auto_reply_enabled":false}`)
	if err := svc.AppendTx(context.Background(), nil, ev); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got := repo.Records()
	if len(got) != 1 {
		t.Fatalf("expected 1 event")
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp assigned: %+v", got[0])
	}
}
