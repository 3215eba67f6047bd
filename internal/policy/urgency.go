package policy

import "strings"

// urgencyKeywords flag inbound texts that should alert the owner immediately.
// Multi-word entries match as substrings of the lowercased body.
var urgencyKeywords = []string{
	"emergency",
	"urgent",
	"asap",
	"no power",
	"no heat",
	"no water",
	"leaking",
	"leak",
	"flood",
	"flooding",
	"burst pipe",
	"broke down",
	"broken down",
	"locked out",
}

// IsUrgent reports whether an inbound SMS body reads as urgent.
// Keyword heuristic; it influences reply tone and owner alerting only.
func IsUrgent(body string) bool {
	if body == "" {
		return false
	}
	lower := strings.ToLower(body)
	for _, kw := range urgencyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
