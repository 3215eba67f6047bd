package reply

import "strings"

// JoinOptions renders an option list for reply text:
// none → "", one → itself, two → "A or B", three+ → "A, B, or C".
func JoinOptions(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}
