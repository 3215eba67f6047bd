package reporting

import (
	"context"
	"errors"
	"time"

	"smarttext/internal/events"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// IMPORTANT:
// - Methods must enforce business filtering.
// - Call events are append-only, so summaries are reproducible for a
//   fixed time range.
//
// The events store satisfies this interface directly.

type Repository interface {
	List(ctx context.Context, businessID string, from, to time.Time) ([]events.CallEvent, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) ActivitySummary(ctx context.Context, req ActivitySummaryRequest) (ActivitySummary, error) {
	rows, err := s.list(ctx, req.BusinessID, req.Range)
	if err != nil {
		return ActivitySummary{}, err
	}

	out := ActivitySummary{BusinessID: req.BusinessID}
	for _, e := range rows {
		switch e.Type {
		case events.EventTypeVoiceMissed:
			out.MissedCalls++
		case events.EventTypeVoiceCompleted:
			out.AnsweredCalls++
		case events.EventTypeSMSInbound:
			out.InboundTexts++
		case events.EventTypeVoiceStatus:
			// progress callbacks are not customer contacts
			continue
		}
		if e.ReplySID != "" {
			out.RepliesSent++
		}
		if e.Urgent {
			out.UrgentMessages++
		}
		if e.OwnerNotified {
			out.OwnerAlerts++
		}
	}

	if contacts := out.MissedCalls + out.InboundTexts; contacts > 0 {
		out.ReplyRate = float64(out.RepliesSent) / float64(contacts)
	}
	return out, nil
}

func (s *Service) MissedCallBreakdown(ctx context.Context, req MissedCallBreakdownRequest) (MissedCallBreakdown, error) {
	rows, err := s.list(ctx, req.BusinessID, req.Range)
	if err != nil {
		return MissedCallBreakdown{}, err
	}

	out := MissedCallBreakdown{BusinessID: req.BusinessID}
	for _, e := range rows {
		if e.Type != events.EventTypeVoiceMissed {
			continue
		}
		switch e.CallStatus {
		case events.CallStatusNoAnswer:
			out.NoAnswer++
		case events.CallStatusBusy:
			out.Busy++
		case events.CallStatusFailed:
			out.Failed++
		case events.CallStatusCompleted:
			out.RangOut++
		}
	}
	return out, nil
}

func (s *Service) list(ctx context.Context, businessID string, r TimeRange) ([]events.CallEvent, error) {
	if businessID == "" {
		return nil, ErrInvalidRequest
	}
	if r.From.IsZero() || r.To.IsZero() || !r.To.After(r.From) {
		return nil, ErrInvalidRequest
	}
	if s.repo == nil {
		return nil, errors.New("reporting: repository not configured")
	}
	return s.repo.List(ctx, businessID, r.From, r.To)
}
