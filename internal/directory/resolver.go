package directory

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("directory: not found")

// Repository is the persistence contract for the business directory.
//
// Number lookups take E.164 input and must apply the most-recent-creation
// tie-break when multiple rows claim the same number (ORDER BY created_at
// DESC LIMIT 1). The tie-break is an explicit policy, not an incidental
// sort order.
type Repository interface {
	FindBusinessByNumber(ctx context.Context, e164 string) (Business, error)
	FindLocationByNumber(ctx context.Context, e164 string) (Location, error)
	FindBusinessByID(ctx context.Context, id string) (Business, error)

	UpdateSettings(ctx context.Context, businessID string, s Settings) error

	// UpdateSettingsTx writes within the caller's transaction so the
	// dashboard can commit the settings row and its audit record together.
	// Memory implementations ignore the tx.
	UpdateSettingsTx(ctx context.Context, tx *sql.Tx, businessID string, s Settings) error
}

// Resolver maps a dialed number to the owning tenant.
//
// Lookup order: location-level numbers first, then business-level
// (public phone or Twilio number). No match returns ErrNotFound; callers
// must treat that as a deliberate no-op, not a failure.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) ResolveNumber(ctx context.Context, number string) (Tenant, error) {
	if r.repo == nil {
		return Tenant{}, errors.New("directory: repository not configured")
	}
	e164 := NormalizeE164(number)
	if e164 == "" {
		return Tenant{}, ErrNotFound
	}

	loc, err := r.repo.FindLocationByNumber(ctx, e164)
	switch {
	case err == nil:
		biz, err := r.repo.FindBusinessByID(ctx, loc.BusinessID)
		if err != nil {
			// A location without a parent is a data integrity problem,
			// surfaced as an error rather than a silent not-found.
			return Tenant{}, err
		}
		l := loc
		return Tenant{Business: biz, Location: &l}, nil
	case !errors.Is(err, ErrNotFound):
		return Tenant{}, err
	}

	biz, err := r.repo.FindBusinessByNumber(ctx, e164)
	if err != nil {
		return Tenant{}, err
	}
	return Tenant{Business: biz}, nil
}

// NormalizeE164 converts common US phone formats to E.164.
// Ten digits are assumed to be NANP and get a +1 prefix. Input that is
// already E.164 passes through unchanged. Unparseable input returns "".
func NormalizeE164(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	case strings.HasPrefix(s, "+") && len(digits) >= 8 && len(digits) <= 15:
		return "+" + digits
	default:
		return ""
	}
}
