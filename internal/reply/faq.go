package reply

import (
	"context"
	"strings"
)

// FAQSource answers inbound texts that match a configured FAQ question.
// Voice deliveries never match: there is no inbound text to compare.
type FAQSource struct{}

func (FAQSource) Name() string { return "faq" }

func (FAQSource) TryAnswer(ctx context.Context, in Input) (string, bool, error) {
	if in.Kind != KindInboundSMS || strings.TrimSpace(in.Body) == "" {
		return "", false, nil
	}
	body := normalizeText(in.Body)
	bodyTokens := tokenSet(body)

	for _, faq := range in.Tenant.EffectiveSettings().FAQs {
		q := normalizeText(faq.Question)
		if q == "" || faq.Answer == "" {
			continue
		}
		if strings.Contains(body, q) || strings.Contains(q, body) {
			return faq.Answer, true, nil
		}
		if overlap(bodyTokens, tokenSet(q)) >= 0.6 {
			return faq.Answer, true, nil
		}
	}
	return "", false, nil
}

// normalizeText lowercases and strips punctuation so "Hours?" matches "hours".
func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokenSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, t := range strings.Fields(s) {
		out[t] = struct{}{}
	}
	return out
}

// overlap is the share of question tokens present in the inbound text.
func overlap(body, question map[string]struct{}) float64 {
	if len(question) == 0 {
		return 0
	}
	var hits int
	for t := range question {
		if _, ok := body[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(question))
}
