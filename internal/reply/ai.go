package reply

import (
	"context"
	"fmt"
	"strings"

	"smarttext/internal/completion"
)

// maxReplyLength caps generated replies at two SMS segments.
const maxReplyLength = 300

// AISource generates a reply with the completion service when no
// deterministic source matched. Any service failure is reported as an
// error, which the selector treats as no-match.
type AISource struct {
	Client      completion.Client
	MaxTokens   int
	Temperature float64
}

func (AISource) Name() string { return "ai" }

func (s AISource) TryAnswer(ctx context.Context, in Input) (string, bool, error) {
	if s.Client == nil {
		return "", false, nil
	}

	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 120
	}
	temperature := s.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	text, err := s.Client.Complete(ctx, buildPrompt(in), maxTokens, temperature)
	if err != nil {
		return "", false, err
	}

	text = sanitizeReply(text)
	if text == "" {
		return "", false, completion.ErrEmptyCompletion
	}
	return text, true, nil
}

func buildPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the SMS assistant for %q, a %s business.\n",
		in.Tenant.Business.Name, businessTypeLabel(in.Tenant.Business.Type))

	switch in.Kind {
	case KindMissedCall:
		b.WriteString("A customer just called and the call was missed. Write a short, friendly SMS apologizing for the missed call and inviting them to text back.\n")
	default:
		fmt.Fprintf(&b, "A customer texted: %q. Write a short, helpful SMS reply.\n", strings.TrimSpace(in.Body))
	}

	if in.Urgent {
		b.WriteString("The customer's message sounds urgent; acknowledge that someone will follow up right away.\n")
	}
	if opts := in.Tenant.EffectiveSettings().ReplyOptions; len(opts) > 0 {
		fmt.Fprintf(&b, "If helpful, mention they can ask about %s.\n", JoinOptions(opts))
	}
	b.WriteString("Keep it under 300 characters. Plain text only. Do not invent prices, hours, or promises.")
	return b.String()
}

// sanitizeReply flattens whitespace and enforces the SMS length cap.
func sanitizeReply(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, `"`)
	if len(s) > maxReplyLength {
		cut := s[:maxReplyLength]
		if i := strings.LastIndex(cut, " "); i > 0 {
			cut = cut[:i]
		}
		s = cut
	}
	return s
}
