package audit

import (
	"context"
	"database/sql"
	"sync"
)

// MemoryRepo keeps audit records in process memory. It backs handler and
// service tests; production wiring uses PostgresRepo.
type MemoryRepo struct {
	mu      sync.Mutex
	records []Event
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, e)
	return nil
}

// AppendTx ignores the transaction; memory writes are single-step.
func (r *MemoryRepo) AppendTx(ctx context.Context, _ *sql.Tx, e Event) error {
	return r.Append(ctx, e)
}

// Records returns a copy of everything appended, oldest first.
func (r *MemoryRepo) Records() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.records))
	copy(out, r.records)
	return out
}
