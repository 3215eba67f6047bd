package reply

import (
	"context"
	"fmt"

	"smarttext/internal/directory"
)

// GenericSource is the circuit-breaker floor of the chain: it always
// answers with a business-type template, so the caller is never left
// without a reply.
type GenericSource struct{}

func (GenericSource) Name() string { return "generic" }

func (GenericSource) TryAnswer(ctx context.Context, in Input) (string, bool, error) {
	opts := in.Tenant.EffectiveSettings().ReplyOptions
	return genericTemplate(in.Tenant.Business.Type, in.Tenant.Business.Name, in.Kind, opts), true, nil
}

// defaultOptions are the per-type option lists used when a tenant has not
// configured its own.
var defaultOptions = map[directory.BusinessType][]string{
	directory.TypeRestaurant: {"hours", "menu", "reservations"},
	directory.TypeAutoShop:   {"repairs", "quotes", "appointment times"},
	directory.TypeSalon:      {"appointments", "pricing", "availability"},
	directory.TypeRetail:     {"hours", "product availability", "pricing"},
	directory.TypeHealthcare: {"appointments", "office hours", "insurance"},
}

func businessTypeLabel(t directory.BusinessType) string {
	switch t {
	case directory.TypeRestaurant:
		return "restaurant"
	case directory.TypeAutoShop:
		return "auto repair"
	case directory.TypeSalon:
		return "salon"
	case directory.TypeRetail:
		return "retail"
	case directory.TypeHealthcare:
		return "healthcare"
	default:
		return "local"
	}
}

func genericTemplate(t directory.BusinessType, name string, kind Kind, opts []string) string {
	if len(opts) == 0 {
		opts = defaultOptions[t]
	}
	if len(opts) == 0 {
		opts = []string{"hours", "services", "pricing"}
	}
	ask := JoinOptions(opts)

	if kind == KindMissedCall {
		return fmt.Sprintf("Hi, thanks for calling %s! Sorry we missed you. Text us back and we'll help right away - you can ask about %s.", name, ask)
	}
	return fmt.Sprintf("Thanks for texting %s! We'll get back to you shortly - feel free to ask about %s.", name, ask)
}
