package model

import "fmt"

// ExhaustedError reports that every candidate URL failed to produce usable HTML.
type ExhaustedError struct {
	Source     string
	Attempts   int
	LastStatus int
	FirstURL   string
}

func (e *ExhaustedError) Error() string {
	status := "n/a"
	if e.LastStatus != 0 {
		status = fmt.Sprintf("%d", e.LastStatus)
	}
	return fmt.Sprintf("Failed to load Codeforces problem page (last status %s)", status)
}

// StatementNotFoundError reports a page that loaded without a statement container.
type StatementNotFoundError struct {
	URL string
}

func (e *StatementNotFoundError) Error() string {
	return "Codeforces page loaded, but no problem statement found (likely a bot/challenge page)."
}

// UnsupportedLanguageError is returned for languages the code runner cannot map.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("Unsupported language: %s", e.Language)
}

// UpstreamError carries a non-successful response from an external service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s unexpected status %d: %s", e.Service, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
