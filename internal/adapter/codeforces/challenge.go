package codeforces

import "strings"

var challengeMarkers = []string{
	"attention required",
	"just a moment",
}

// IsChallengePage reports whether html looks like an anti-bot interstitial.
// Pages that mention cloudflare are accepted when they also carry the statement markup.
func IsChallengePage(html string) bool {
	lc := strings.ToLower(html)
	for _, marker := range challengeMarkers {
		if strings.Contains(lc, marker) {
			return true
		}
	}
	return strings.Contains(lc, "cloudflare") && !strings.Contains(lc, "problem-statement")
}
