package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ActivitySummaryRequest requests aggregated missed-call and reply metrics.
// Tenant isolation: BusinessID is required.

type ActivitySummaryRequest struct {
	BusinessID string    `json:"business_id"`
	Range      TimeRange `json:"range"`
}

type ActivitySummary struct {
	BusinessID string `json:"business_id"`

	MissedCalls   int `json:"missed_calls"`
	AnsweredCalls int `json:"answered_calls"`
	InboundTexts  int `json:"inbound_texts"`

	RepliesSent    int `json:"replies_sent"`
	UrgentMessages int `json:"urgent_messages"`
	OwnerAlerts    int `json:"owner_alerts"`

	// ReplyRate is replies sent over missed calls plus inbound texts.
	ReplyRate float64 `json:"reply_rate"`
}

// MissedCallBreakdownRequest requests missed calls grouped by provider status.

type MissedCallBreakdownRequest struct {
	BusinessID string    `json:"business_id"`
	Range      TimeRange `json:"range"`
}

type MissedCallBreakdown struct {
	BusinessID string `json:"business_id"`

	NoAnswer int `json:"no_answer"`
	Busy     int `json:"busy"`
	Failed   int `json:"failed"`

	// RangOut counts completed calls with zero connected duration.
	RangOut int `json:"rang_out"`
}
