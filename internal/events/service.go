package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEvent = errors.New("events: invalid event")
	ErrOutOfOrder   = errors.New("events: out-of-order status transition")
)

// Store is the persistence contract for call events.
//
// Insert must be conditional on the (provider_call_id, type) idempotency key
// and report whether a row was actually created.
type Store interface {
	Insert(ctx context.Context, e CallEvent) (inserted bool, err error)
	LastStatus(ctx context.Context, providerCallID string) (CallStatus, bool, error)
	List(ctx context.Context, businessID string, from, to time.Time) ([]CallEvent, error)
	SetReplyDispatched(ctx context.Context, eventID, replySID, replyStatus string) error
	SetOwnerNotified(ctx context.Context, eventID string) error
}

// Service records webhook deliveries.
//
// Record is the durable idempotency gate of the reply pipeline: it runs
// before any reply is composed, so a crash after Record never leads to a
// duplicate row on redelivery.
type Service struct {
	store Store
	clock func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, clock: time.Now}
}

// Record persists a webhook delivery. The bool result reports whether this
// delivery is new: false means the same provider event was already recorded
// (duplicate delivery) or arrived out of order, and callers must not act on it.
func (s *Service) Record(ctx context.Context, e CallEvent) (CallEvent, bool, error) {
	if s.store == nil {
		return CallEvent{}, false, errors.New("events: store not configured")
	}
	if e.BusinessID == "" || e.ProviderCallID == "" || e.Type == "" {
		return CallEvent{}, false, ErrInvalidEvent
	}

	if e.CallStatus != "" {
		last, ok, err := s.store.LastStatus(ctx, e.ProviderCallID)
		if err != nil {
			return CallEvent{}, false, err
		}
		if ok && !CanTransition(last, e.CallStatus) {
			return CallEvent{}, false, nil
		}
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}

	inserted, err := s.store.Insert(ctx, e)
	if err != nil {
		return CallEvent{}, false, err
	}
	return e, inserted, nil
}

func (s *Service) List(ctx context.Context, businessID string, from, to time.Time) ([]CallEvent, error) {
	if s.store == nil {
		return nil, errors.New("events: store not configured")
	}
	if businessID == "" {
		return nil, ErrInvalidEvent
	}
	return s.store.List(ctx, businessID, from, to)
}

// MarkReplyDispatched stores the delivery-status placeholder after a send.
// Best-effort: dispatch already happened, so failures are the caller's to log.
func (s *Service) MarkReplyDispatched(ctx context.Context, eventID, replySID, replyStatus string) error {
	if eventID == "" {
		return ErrInvalidEvent
	}
	return s.store.SetReplyDispatched(ctx, eventID, replySID, replyStatus)
}

func (s *Service) MarkOwnerNotified(ctx context.Context, eventID string) error {
	if eventID == "" {
		return ErrInvalidEvent
	}
	return s.store.SetOwnerNotified(ctx, eventID)
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}
