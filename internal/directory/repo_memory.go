package directory

import (
	"context"
	"database/sql"
	"sync"
)

// MemoryRepo is an in-memory directory for tests.
// It applies the same most-recent-creation tie-break as the Postgres repo.
type MemoryRepo struct {
	mu         sync.Mutex
	Businesses []Business
	Locations  []Location
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) FindBusinessByNumber(ctx context.Context, e164 string) (Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *Business
	for i := range r.Businesses {
		b := &r.Businesses[i]
		if b.PublicPhone != e164 && b.TwilioPhone != e164 {
			continue
		}
		if best == nil || b.CreatedAt.After(best.CreatedAt) {
			best = b
		}
	}
	if best == nil {
		return Business{}, ErrNotFound
	}
	return *best, nil
}

func (r *MemoryRepo) FindLocationByNumber(ctx context.Context, e164 string) (Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *Location
	for i := range r.Locations {
		l := &r.Locations[i]
		if l.TwilioPhone != e164 {
			continue
		}
		if best == nil || l.CreatedAt.After(best.CreatedAt) {
			best = l
		}
	}
	if best == nil {
		return Location{}, ErrNotFound
	}
	return *best, nil
}

func (r *MemoryRepo) FindBusinessByID(ctx context.Context, id string) (Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.Businesses {
		if b.ID == id {
			return b, nil
		}
	}
	return Business{}, ErrNotFound
}

// UpdateSettingsTx ignores the transaction; memory writes are single-step.
func (r *MemoryRepo) UpdateSettingsTx(ctx context.Context, _ *sql.Tx, businessID string, s Settings) error {
	return r.UpdateSettings(ctx, businessID, s)
}

func (r *MemoryRepo) UpdateSettings(ctx context.Context, businessID string, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Businesses {
		if r.Businesses[i].ID == businessID {
			r.Businesses[i].Settings = s
			return nil
		}
	}
	return ErrNotFound
}
