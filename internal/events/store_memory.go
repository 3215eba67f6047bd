package events

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory call-event store for tests.
// It enforces the same (provider_call_id, event_type) idempotency key as
// the Postgres store.
type MemoryStore struct {
	mu     sync.Mutex
	events []CallEvent
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Insert(ctx context.Context, e CallEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.events {
		if x.ProviderCallID == e.ProviderCallID && x.Type == e.Type {
			return false, nil
		}
	}
	s.events = append(s.events, e)
	return true, nil
}

func (s *MemoryStore) LastStatus(ctx context.Context, providerCallID string) (CallStatus, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		st    CallStatus
		found bool
		at    time.Time
	)
	for _, e := range s.events {
		if e.ProviderCallID != providerCallID || e.CallStatus == "" {
			continue
		}
		if !found || e.CreatedAt.After(at) {
			st, at, found = e.CallStatus, e.CreatedAt, true
		}
	}
	return st, found, nil
}

func (s *MemoryStore) List(ctx context.Context, businessID string, from, to time.Time) ([]CallEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CallEvent, 0)
	for _, e := range s.events {
		if e.BusinessID != businessID {
			continue
		}
		if e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *MemoryStore) SetReplyDispatched(ctx context.Context, eventID, replySID, replyStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].ReplySID = replySID
			s.events[i].ReplyStatus = replyStatus
			return nil
		}
	}
	return ErrInvalidEvent
}

func (s *MemoryStore) SetOwnerNotified(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].OwnerNotified = true
			return nil
		}
	}
	return ErrInvalidEvent
}

// Events returns a copy of all stored events.
func (s *MemoryStore) Events() []CallEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CallEvent, len(s.events))
	copy(out, s.events)
	return out
}
