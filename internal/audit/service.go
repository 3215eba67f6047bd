package audit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error

	// AppendTx writes within the caller's transaction, so a settings change
	// and its audit record commit or roll back together. Memory
	// implementations ignore the tx.
	AppendTx(ctx context.Context, tx *sql.Tx, e Event) error
}

// Service logs internal audit information.
//
// Audit is internal-only. Do not expose these records to tenant users by
// default. Settings changes commit atomically with their audit record via
// AppendTx; standalone Append callers decide their own failure handling.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	prepared, err := s.prepare(e)
	if err != nil {
		return err
	}
	return s.repo.Append(ctx, prepared)
}

// AppendTx validates and fills the event like Append, then writes it on the
// caller's transaction.
func (s *Service) AppendTx(ctx context.Context, tx *sql.Tx, e Event) error {
	prepared, err := s.prepare(e)
	if err != nil {
		return err
	}
	return s.repo.AppendTx(ctx, tx, prepared)
}

func (s *Service) prepare(e Event) (Event, error) {
	if s.repo == nil {
		return Event{}, errors.New("audit: repository not configured")
	}
	if e.BusinessID == "" {
		return Event{}, ErrInvalidEvent
	}
	if e.Type == "" {
		return Event{}, ErrInvalidEvent
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return e, nil
}

// SettingsUpdateEvent builds the record for a change to a tenant's reply
// settings. Metadata should carry the new settings, JSON-encoded.
func SettingsUpdateEvent(businessID, actorUserID, actorRole, ip, metadata string) Event {
	return Event{
		BusinessID:  businessID,
		Type:        EventTypeSettingsUpdated,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		Message:     "reply settings updated",
		Metadata:    metadata,
	}
}
