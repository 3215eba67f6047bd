package reply

import (
	"context"
	"fmt"
	"strings"
)

// orderingKeywords signal that an inbound text is trying to place an order.
var orderingKeywords = []string{
	"order",
	"ordering",
	"menu",
	"delivery",
	"deliver",
	"pickup",
	"pick up",
	"takeout",
	"take out",
	"to-go",
	"to go",
}

// OrderingSource short-circuits ordering intent to the tenant's online
// ordering link. This path deliberately bypasses the completion service:
// a deterministic answer is faster and cheaper than a generated one.
type OrderingSource struct{}

func (OrderingSource) Name() string { return "ordering" }

func (OrderingSource) TryAnswer(ctx context.Context, in Input) (string, bool, error) {
	if in.Kind != KindInboundSMS {
		return "", false, nil
	}
	url := in.Tenant.EffectiveSettings().OrderingURL
	if url == "" {
		return "", false, nil
	}
	if !hasOrderingIntent(in.Body) {
		return "", false, nil
	}
	return fmt.Sprintf("Thanks for reaching out to %s! You can place your order online here: %s", in.Tenant.Business.Name, url), true, nil
}

func hasOrderingIntent(body string) bool {
	lower := strings.ToLower(body)
	for _, kw := range orderingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
