package messaging

import (
	"context"
	"fmt"
	"sync"
)

// MemoryProvider records sends for tests.
type MemoryProvider struct {
	mu    sync.Mutex
	sends []RecordedSend

	// FailWith, when set, makes every Send return this error.
	FailWith error
}

type RecordedSend struct {
	From string
	To   string
	Body string
}

func NewMemoryProvider() *MemoryProvider { return &MemoryProvider{} }

func (p *MemoryProvider) Name() string { return "memory" }

func (p *MemoryProvider) Send(ctx context.Context, from, to, body string) (SendResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return SendResult{}, p.FailWith
	}
	p.sends = append(p.sends, RecordedSend{From: from, To: to, Body: body})
	return SendResult{ID: fmt.Sprintf("SM%04d", len(p.sends)), Status: "queued"}, nil
}

// Sends returns a copy of all recorded sends.
func (p *MemoryProvider) Sends() []RecordedSend {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]RecordedSend, len(p.sends))
	copy(out, p.sends)
	return out
}
