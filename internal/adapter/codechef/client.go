package codechef

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

const contestsEndpoint = "https://www.codechef.com/api/list/contests/all"

// Client reads the public CodeChef contest listing.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     ports.Logger
}

var _ ports.ContestProvider = (*Client)(nil)

func New(timeout time.Duration, logger ports.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   contestsEndpoint,
		logger:     logger,
	}
}

// Platform implements ports.ContestProvider.
func (c *Client) Platform() model.Platform { return model.PlatformCodeChef }

// Raw returns the listing body exactly as CodeChef served it. A non-2xx
// response is reported as *model.UpstreamError carrying the status and body.
func (c *Client) Raw(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Service: "codechef", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &model.UpstreamError{Service: "codechef", StatusCode: resp.StatusCode, Body: string(data)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("codechef returned invalid JSON")
	}
	return data, nil
}

type listing struct {
	FutureContests []struct {
		Code     string `json:"contest_code"`
		Name     string `json:"contest_name"`
		StartISO string `json:"contest_start_date_iso"`
		Duration string `json:"contest_duration"`
	} `json:"future_contests"`
}

// UpcomingContests parses future_contests from the listing.
func (c *Client) UpcomingContests(ctx context.Context) ([]model.Contest, error) {
	data, err := c.Raw(ctx)
	if err != nil {
		return nil, err
	}

	var l listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode contests: %w", err)
	}

	out := make([]model.Contest, 0, len(l.FutureContests))
	for _, ct := range l.FutureContests {
		start, err := time.Parse(time.RFC3339, ct.StartISO)
		if err != nil {
			c.logger.Warn(ctx, "skip codechef contest with bad start time", "code", ct.Code, "start", ct.StartISO)
			continue
		}
		out = append(out, model.Contest{
			ID:        "cc-" + ct.Code,
			Platform:  model.PlatformCodeChef,
			Name:      ct.Name,
			StartTime: start.UTC(),
			Duration:  parseMinutes(ct.Duration),
			URL:       "https://www.codechef.com/" + ct.Code,
		})
	}
	return out, nil
}

func parseMinutes(v string) time.Duration {
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0
	}
	return time.Duration(n) * time.Minute
}
