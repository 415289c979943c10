package model

import "time"

// ProblemRef identifies a Codeforces problem by contest and index (e.g. 1900, "A").
type ProblemRef struct {
	ContestID string
	Index     string
}

// CacheKey returns the key used by statement caches.
func (r ProblemRef) CacheKey() string {
	return r.ContestID + "-" + r.Index
}

// SampleTest is a single example input/output pair from a statement.
type SampleTest struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ProblemStatement is the scraped, sanitized statement returned to clients.
type ProblemStatement struct {
	ContestID     string       `json:"contestId"`
	Index         string       `json:"index"`
	URL           string       `json:"url"`
	Title         string       `json:"title"`
	TimeLimit     string       `json:"timeLimit"`
	MemoryLimit   string       `json:"memoryLimit"`
	InputFile     string       `json:"inputFile"`
	OutputFile    string       `json:"outputFile"`
	Samples       []SampleTest `json:"samples"`
	StatementHTML string       `json:"statementHtml"`
}

// CacheEntry pairs a statement with the time it was scraped.
type CacheEntry struct {
	Key       string           `json:"key"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Payload   ProblemStatement `json:"payload"`
}

// Page is raw HTML obtained by a fetcher together with where it came from.
type Page struct {
	HTML string
	// URL is the canonical problem URL without locale/mobile query parameters.
	URL string
	// Origin is the mirror origin used to absolutise relative links.
	Origin string
	// Fetcher names the strategy that produced the page.
	Fetcher string
}

// FetchMode selects which fetcher chain serves a request.
type FetchMode string

const (
	FetchDirect  FetchMode = "direct"
	FetchBrowser FetchMode = "browser"
)
