package detect

import (
	"strconv"
	"strings"
	"time"
)

// maxSuggestionStem is the longest hostname-derived part of a suggestion.
const maxSuggestionStem = 10

// SuggestAlias derives a human-readable alias local-part from a hostname:
// leading "www." stripped, everything but ASCII letters and digits dropped,
// lowercased, truncated to 10 characters, plus the last 3 digits of the
// millisecond timestamp. Collisions are possible; the remote service is the
// arbiter.
func SuggestAlias(hostname string, now time.Time) string {
	host := strings.TrimPrefix(strings.ToLower(hostname), "www.")

	// ASCII only: the stem feeds an email local-part, and truncation below
	// works on bytes.
	var stem strings.Builder
	for _, r := range host {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			stem.WriteByte(byte(r))
		}
	}
	s := stem.String()
	if len(s) > maxSuggestionStem {
		s = s[:maxSuggestionStem]
	}

	ms := strconv.FormatInt(now.UnixMilli(), 10)
	return s + ms[len(ms)-3:]
}
