package codeforces

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

// UserAgent is the desktop Chrome identity presented to Codeforces.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// BrowserHeaders are sent with every direct request and injected into browser sessions.
// Accept-Encoding is left to the transport so responses are decompressed transparently.
var BrowserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

const maxPageSize = 8 << 20

// HTTPFetcher loads problem pages with plain GET requests.
type HTTPFetcher struct {
	httpClient *http.Client
	mirrors    []string
	logger     ports.Logger
}

var _ ports.PageFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a direct fetcher over the given mirrors.
func NewHTTPFetcher(mirrors []string, timeout time.Duration, logger ports.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
		mirrors:    mirrors,
		logger:     logger,
	}
}

// Name implements ports.PageFetcher.
func (f *HTTPFetcher) Name() string { return "http" }

// Fetch tries every desktop candidate in order and returns the first page that
// is 200 OK and not a challenge interstitial.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref model.ProblemRef) (*model.Page, error) {
	candidates := BuildCandidates(ref, f.mirrors, DesktopVariants)
	lastStatus := 0

	for _, c := range candidates {
		status, body, err := f.get(ctx, c.URL)
		if status != 0 {
			lastStatus = status
		}
		if err != nil {
			f.logger.Warn(ctx, "codeforces candidate failed", "url", c.URL, "error", err)
			continue
		}
		if status != http.StatusOK {
			f.logger.Warn(ctx, "codeforces candidate returned non-OK status", "url", c.URL, "status", status)
			continue
		}
		if IsChallengePage(body) {
			f.logger.Warn(ctx, "codeforces candidate served a challenge page", "url", c.URL)
			continue
		}
		return &model.Page{
			HTML:    body,
			URL:     c.Canonical,
			Origin:  c.Origin,
			Fetcher: f.Name(),
		}, nil
	}

	return nil, &model.ExhaustedError{
		Source:     f.Name(),
		Attempts:   len(candidates),
		LastStatus: lastStatus,
		FirstURL:   candidates[0].URL,
	}
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	for k, v := range BrowserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return resp.StatusCode, "", nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, string(data), nil
}
