package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PostgresRepo persists the directory in Postgres.
//
// Assumed tables:
//   - businesses (id, name, business_type, public_phone, twilio_phone,
//     forwarding_phone, tier, settings JSONB, created_at, updated_at)
//   - locations (id, business_id, name, twilio_phone, overrides JSONB, created_at)
//
// A uniqueness constraint on number columns is deliberately NOT assumed;
// duplicate assignments are resolved by the most-recent-creation policy in
// every number lookup.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) FindBusinessByNumber(ctx context.Context, e164 string) (Business, error) {
	const q = `
SELECT id, name, business_type, public_phone, twilio_phone, forwarding_phone, tier, settings, created_at, updated_at
FROM businesses
WHERE public_phone = $1 OR twilio_phone = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.scanBusiness(r.db.QueryRowContext(ctx, q, e164))
}

func (r *PostgresRepo) FindBusinessByID(ctx context.Context, id string) (Business, error) {
	const q = `
SELECT id, name, business_type, public_phone, twilio_phone, forwarding_phone, tier, settings, created_at, updated_at
FROM businesses
WHERE id = $1
`
	return r.scanBusiness(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) FindLocationByNumber(ctx context.Context, e164 string) (Location, error) {
	const q = `
SELECT id, business_id, name, twilio_phone, overrides, created_at
FROM locations
WHERE twilio_phone = $1
ORDER BY created_at DESC
LIMIT 1
`
	var (
		l         Location
		overrides []byte
	)
	err := r.db.QueryRowContext(ctx, q, e164).Scan(
		&l.ID,
		&l.BusinessID,
		&l.Name,
		&l.TwilioPhone,
		&overrides,
		&l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Location{}, ErrNotFound
		}
		return Location{}, err
	}
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &l.Overrides); err != nil {
			return Location{}, err
		}
	}
	return l, nil
}

func (r *PostgresRepo) UpdateSettings(ctx context.Context, businessID string, s Settings) error {
	return updateSettings(ctx, r.db, businessID, s)
}

// UpdateSettingsTx runs the same update on the caller's transaction.
func (r *PostgresRepo) UpdateSettingsTx(ctx context.Context, tx *sql.Tx, businessID string, s Settings) error {
	return updateSettings(ctx, tx, businessID, s)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateSettings(ctx context.Context, ex execer, businessID string, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	const q = `
UPDATE businesses
SET settings = $2, updated_at = $3
WHERE id = $1
`
	res, err := ex.ExecContext(ctx, q, businessID, raw, time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepo) scanBusiness(row rowScanner) (Business, error) {
	var (
		b        Business
		settings []byte
	)
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Type,
		&b.PublicPhone,
		&b.TwilioPhone,
		&b.ForwardingPhone,
		&b.Tier,
		&settings,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		return Business{}, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &b.Settings); err != nil {
			return Business{}, err
		}
	}
	return b, nil
}
