package audit

import (
	"context"
	"database/sql"
	"fmt"
)

const insertEventSQL = `
INSERT INTO audit_events
    (id, business_id, type, actor_user_id, actor_role, ip_address, message, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// PostgresRepo persists audit events. Insert-only by contract; the table
// should also reject UPDATE/DELETE at the database level.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	return insertEvent(ctx, r.db, e)
}

// AppendTx inserts on the caller's transaction.
func (r *PostgresRepo) AppendTx(ctx context.Context, tx *sql.Tx, e Event) error {
	return insertEvent(ctx, tx, e)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEvent(ctx context.Context, ex execer, e Event) error {
	_, err := ex.ExecContext(ctx, insertEventSQL,
		e.ID, e.BusinessID, e.Type, e.ActorUserID, e.ActorRole,
		e.IPAddress, e.Message, e.Metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: append: %w", err)
	}
	return nil
}
