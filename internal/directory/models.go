package directory

import "time"

// Business is the root of tenant data. Every inbound webhook is resolved to
// exactly one Business (optionally through one of its Locations) before any
// reply decision is made.
//
// Invariant: a Business is resolvable by either its public phone or its
// dedicated Twilio number. Duplicate number assignments are resolved by
// most-recent-creation; see Resolver.
type Business struct {
	ID   string       `json:"id" db:"id"`
	Name string       `json:"name" db:"name"`
	Type BusinessType `json:"business_type" db:"business_type"`

	// PublicPhone is the customer-facing line (E.164).
	PublicPhone string `json:"public_phone" db:"public_phone"`
	// TwilioPhone is the dedicated provisioned number calls are forwarded through (E.164).
	TwilioPhone string `json:"twilio_phone" db:"twilio_phone"`
	// ForwardingPhone is where calls are forwarded when answered live.
	ForwardingPhone string `json:"forwarding_phone,omitempty" db:"forwarding_phone"`

	Tier SubscriptionTier `json:"tier" db:"tier"`

	Settings Settings `json:"settings" db:"settings"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Location is a child of a Business on the multi-location tier. It carries its
// own dedicated number and may override the parent's reply settings.
type Location struct {
	ID         string `json:"id" db:"id"`
	BusinessID string `json:"business_id" db:"business_id"`
	Name       string `json:"name" db:"name"`

	TwilioPhone string `json:"twilio_phone" db:"twilio_phone"`

	// Overrides replace the parent settings field-by-field when set.
	Overrides SettingsOverrides `json:"overrides" db:"overrides"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type BusinessType string

const (
	TypeRestaurant BusinessType = "restaurant"
	TypeAutoShop   BusinessType = "auto_shop"
	TypeSalon      BusinessType = "salon"
	TypeRetail     BusinessType = "retail"
	TypeHealthcare BusinessType = "healthcare"
	TypeOther      BusinessType = "other"
)

type SubscriptionTier string

const (
	TierBasic  SubscriptionTier = "basic"
	TierPro    SubscriptionTier = "pro"
	TierGrowth SubscriptionTier = "growth"
)

// FAQ is a tenant-configured question/answer pair used for deterministic replies.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Settings is the free-form per-tenant settings blob. Stored as JSONB.
type Settings struct {
	// AutoReplyEnabled gates the whole pipeline. nil means "not set",
	// which defaults to enabled.
	AutoReplyEnabled *bool `json:"auto_reply_enabled,omitempty"`

	// OwnerPhone receives urgent-message alerts (E.164).
	OwnerPhone string `json:"owner_phone,omitempty"`

	// ReplyOptions is the option list embedded in generic replies
	// ("ask about hours, menu, or reservations").
	ReplyOptions []string `json:"reply_options,omitempty"`

	// OrderingURL enables the online-ordering reply path.
	OrderingURL string `json:"ordering_url,omitempty"`

	FAQs []FAQ `json:"faqs,omitempty"`
}

// AutoReplyOn reports whether auto-replies are enabled, defaulting to true
// when the setting is absent.
func (s Settings) AutoReplyOn() bool {
	if s.AutoReplyEnabled == nil {
		return true
	}
	return *s.AutoReplyEnabled
}

// SettingsOverrides are sparse location-level overrides.
type SettingsOverrides struct {
	AutoReplyEnabled *bool    `json:"auto_reply_enabled,omitempty"`
	OwnerPhone       string   `json:"owner_phone,omitempty"`
	ReplyOptions     []string `json:"reply_options,omitempty"`
	OrderingURL      string   `json:"ordering_url,omitempty"`
	FAQs             []FAQ    `json:"faqs,omitempty"`
}

// Tenant is the resolved target of an inbound webhook: a Business, plus the
// matched Location when the dialed number is location-level.
type Tenant struct {
	Business Business
	Location *Location
}

// EffectiveSettings merges location overrides over business settings.
func (t Tenant) EffectiveSettings() Settings {
	s := t.Business.Settings
	if t.Location == nil {
		return s
	}
	o := t.Location.Overrides
	if o.AutoReplyEnabled != nil {
		s.AutoReplyEnabled = o.AutoReplyEnabled
	}
	if o.OwnerPhone != "" {
		s.OwnerPhone = o.OwnerPhone
	}
	if len(o.ReplyOptions) > 0 {
		s.ReplyOptions = o.ReplyOptions
	}
	if o.OrderingURL != "" {
		s.OrderingURL = o.OrderingURL
	}
	if len(o.FAQs) > 0 {
		s.FAQs = o.FAQs
	}
	return s
}

// SendingNumber is the number outbound replies are sent from.
func (t Tenant) SendingNumber() string {
	if t.Location != nil && t.Location.TwilioPhone != "" {
		return t.Location.TwilioPhone
	}
	return t.Business.TwilioPhone
}
