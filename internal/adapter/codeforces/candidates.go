package codeforces

import (
	"strings"

	"codemate/internal/domain/model"
)

// DefaultMirrors are the Codeforces origins tried in order.
var DefaultMirrors = []string{
	"https://codeforces.com",
	"https://mirror.codeforces.com",
	"https://m1.codeforces.com",
}

// StatementSelector matches the statement container on a problem page.
const StatementSelector = ".problem-statement"

// Variant is a query-string suffix appended to every mirror/path pair.
type Variant string

const (
	VariantDesktop Variant = "?locale=en"
	VariantMobile  Variant = "?locale=en&mobile=true"
)

// DesktopVariants is used by the direct HTTP fetcher.
var DesktopVariants = []Variant{VariantDesktop}

// BrowserVariants is used by the headless browser fetchers.
var BrowserVariants = []Variant{VariantDesktop, VariantMobile}

// Candidate is one URL to try for a problem.
type Candidate struct {
	URL       string
	Origin    string
	Canonical string
}

// BuildCandidates returns mirror x path x variant URLs in a fixed order.
// An empty mirror list falls back to DefaultMirrors, so the result is never empty.
func BuildCandidates(ref model.ProblemRef, mirrors []string, variants []Variant) []Candidate {
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}
	if len(variants) == 0 {
		variants = DesktopVariants
	}

	paths := []string{
		"/problemset/problem/" + ref.ContestID + "/" + ref.Index,
		"/contest/" + ref.ContestID + "/problem/" + ref.Index,
	}

	out := make([]Candidate, 0, len(mirrors)*len(paths)*len(variants))
	for _, m := range mirrors {
		origin := strings.TrimRight(m, "/")
		for _, p := range paths {
			for _, v := range variants {
				out = append(out, Candidate{
					URL:       origin + p + string(v),
					Origin:    origin,
					Canonical: origin + p,
				})
			}
		}
	}
	return out
}
