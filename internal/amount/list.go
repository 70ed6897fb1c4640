package amount

import (
	"regexp"
	"strings"
)

// separators matches a run of commas and/or newlines. A mixed run such as
// ",\n," is one separator, so empty entries never reach the converters.
var separators = regexp.MustCompile(`[,\n]+`)

// SplitList splits free-form list text on commas and newlines, trims each
// entry and drops the empty ones. The same rules apply to amount lists and
// recipient lists so the two stay index-aligned.
func SplitList(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := separators.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
