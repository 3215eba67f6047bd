// Package reply selects the text of an automated reply.
//
// Sources are tried in a fixed order; the first one that answers wins.
// The chain must end in a source that always answers, so a caller is
// never left without a reply.
package reply

import (
	"context"
	"log/slog"

	"smarttext/internal/directory"
)

// Kind distinguishes the two inbound contexts a reply is composed for.
type Kind string

const (
	KindMissedCall Kind = "missed_call"
	KindInboundSMS Kind = "inbound_sms"
)

// Input is the reply-composition context.
type Input struct {
	Tenant directory.Tenant
	Kind   Kind

	// Body is the inbound SMS text; empty for missed calls.
	Body string

	Urgent bool
}

// Source is one strategy for answering. It returns the reply text and true,
// or ("", false) when it has no match. An error is treated as no-match by
// the selector; sources must not take down the pipeline.
type Source interface {
	Name() string
	TryAnswer(ctx context.Context, in Input) (string, bool, error)
}

// Selector composes sources first-match-wins.
type Selector struct {
	sources []Source
	log     *slog.Logger
}

func NewSelector(log *slog.Logger, sources ...Source) *Selector {
	if log == nil {
		log = slog.Default()
	}
	return &Selector{sources: sources, log: log}
}

// Select walks the chain and returns the reply text plus the name of the
// source that produced it. Select never fails: the chain is expected to be
// terminated by an always-answering source, and an empty chain yields the
// untyped generic template as a floor.
func (s *Selector) Select(ctx context.Context, in Input) (text, source string) {
	for _, src := range s.sources {
		out, ok, err := src.TryAnswer(ctx, in)
		if err != nil {
			s.log.Warn("reply source failed, falling through",
				"source", src.Name(), "business_id", in.Tenant.Business.ID, "err", err)
			continue
		}
		if ok {
			return out, src.Name()
		}
	}
	return genericTemplate(in.Tenant.Business.Type, in.Tenant.Business.Name, in.Kind, nil), "floor"
}
