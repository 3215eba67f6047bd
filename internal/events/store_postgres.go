package events

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresStore persists call events.
//
// Assumed table:
//
//	call_events (id, business_id, location_id, provider_call_id, from_number,
//	  to_number, event_type, call_status, duration_seconds, body, urgent,
//	  reply_sid, reply_status, owner_notified, raw_payload, created_at)
//
// with UNIQUE (provider_call_id, event_type).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, e CallEvent) (bool, error) {
	const q = `
INSERT INTO call_events (
  id, business_id, location_id, provider_call_id, from_number, to_number,
  event_type, call_status, duration_seconds, body, urgent,
  reply_sid, reply_status, owner_notified, raw_payload, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
)
ON CONFLICT (provider_call_id, event_type) DO NOTHING
`
	res, err := s.db.ExecContext(ctx, q,
		e.ID,
		e.BusinessID,
		e.LocationID,
		e.ProviderCallID,
		e.From,
		e.To,
		e.Type,
		e.CallStatus,
		e.DurationSeconds,
		e.Body,
		e.Urgent,
		e.ReplySID,
		e.ReplyStatus,
		e.OwnerNotified,
		e.RawPayload,
		e.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *PostgresStore) LastStatus(ctx context.Context, providerCallID string) (CallStatus, bool, error) {
	const q = `
SELECT call_status
FROM call_events
WHERE provider_call_id = $1 AND call_status <> ''
ORDER BY created_at DESC
LIMIT 1
`
	var st CallStatus
	err := s.db.QueryRowContext(ctx, q, providerCallID).Scan(&st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return st, true, nil
}

func (s *PostgresStore) List(ctx context.Context, businessID string, from, to time.Time) ([]CallEvent, error) {
	const q = `
SELECT id, business_id, location_id, provider_call_id, from_number, to_number,
       event_type, call_status, duration_seconds, body, urgent,
       reply_sid, reply_status, owner_notified, raw_payload, created_at
FROM call_events
WHERE business_id = $1 AND created_at >= $2 AND created_at < $3
ORDER BY created_at DESC
`
	rows, err := s.db.QueryContext(ctx, q, businessID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallEvent
	for rows.Next() {
		var e CallEvent
		if err := rows.Scan(
			&e.ID,
			&e.BusinessID,
			&e.LocationID,
			&e.ProviderCallID,
			&e.From,
			&e.To,
			&e.Type,
			&e.CallStatus,
			&e.DurationSeconds,
			&e.Body,
			&e.Urgent,
			&e.ReplySID,
			&e.ReplyStatus,
			&e.OwnerNotified,
			&e.RawPayload,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetReplyDispatched(ctx context.Context, eventID, replySID, replyStatus string) error {
	const q = `
UPDATE call_events
SET reply_sid = $2, reply_status = $3
WHERE id = $1
`
	_, err := s.db.ExecContext(ctx, q, eventID, replySID, replyStatus)
	return err
}

func (s *PostgresStore) SetOwnerNotified(ctx context.Context, eventID string) error {
	const q = `
UPDATE call_events
SET owner_notified = TRUE
WHERE id = $1
`
	_, err := s.db.ExecContext(ctx, q, eventID)
	return err
}
