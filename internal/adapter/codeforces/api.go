package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

const apiEndpoint = "https://codeforces.com/api"

// APIClient talks to the public Codeforces JSON API.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     ports.Logger
}

var (
	_ ports.StatsProvider   = (*APIClient)(nil)
	_ ports.ContestProvider = (*APIClient)(nil)
)

// NewAPIClient creates a client that issues at most rps requests per second.
func NewAPIClient(timeout time.Duration, rps float64, logger ports.Logger) *APIClient {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    apiEndpoint,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Platform implements ports.ContestProvider.
func (c *APIClient) Platform() model.Platform { return model.PlatformCodeforces }

type apiProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Tags      []string `json:"tags"`
}

type apiSubmission struct {
	Verdict string     `json:"verdict"`
	Problem apiProblem `json:"problem"`
}

type apiUser struct {
	Handle string `json:"handle"`
	Rating *int   `json:"rating"`
}

type apiContest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Phase            string `json:"phase"`
	StartTimeSeconds *int64 `json:"startTimeSeconds"`
	DurationSeconds  int64  `json:"durationSeconds"`
}

// UserStats counts unique accepted problems and their tags for a handle.
func (c *APIClient) UserStats(ctx context.Context, handle string) (*model.UserStats, error) {
	var (
		subs  []apiSubmission
		users []apiUser
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.call(gctx, "user.status", url.Values{"handle": {handle}}, &subs)
	})
	g.Go(func() error {
		return c.call(gctx, "user.info", url.Values{"handles": {handle}}, &users)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	tags := make(map[string]int)
	for _, s := range subs {
		if s.Verdict != "OK" {
			continue
		}
		pid := strconv.Itoa(s.Problem.ContestID) + "-" + s.Problem.Index
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		for _, t := range s.Problem.Tags {
			tags[t]++
		}
	}

	rating := 0
	if len(users) > 0 && users[0].Rating != nil {
		rating = *users[0].Rating
	}

	return &model.UserStats{
		Tags:        tags,
		TotalSolved: len(seen),
		Rating:      &rating,
	}, nil
}

// UpcomingContests lists contests that have not started yet.
func (c *APIClient) UpcomingContests(ctx context.Context) ([]model.Contest, error) {
	var contests []apiContest
	if err := c.call(ctx, "contest.list", nil, &contests); err != nil {
		return nil, err
	}

	out := make([]model.Contest, 0)
	for _, ct := range contests {
		if ct.Phase != "BEFORE" || ct.StartTimeSeconds == nil {
			continue
		}
		out = append(out, model.Contest{
			ID:        fmt.Sprintf("cf-%d", ct.ID),
			Platform:  model.PlatformCodeforces,
			Name:      ct.Name,
			StartTime: time.Unix(*ct.StartTimeSeconds, 0).UTC(),
			Duration:  time.Duration(ct.DurationSeconds) * time.Second,
			URL:       fmt.Sprintf("https://codeforces.com/contest/%d", ct.ID),
		})
	}
	return out, nil
}

func (c *APIClient) call(ctx context.Context, method string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	endpoint := c.baseURL + "/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.UpstreamError{Service: "codeforces " + method, Err: err}
	}
	defer resp.Body.Close()

	var envelope struct {
		Status  string          `json:"status"`
		Comment string          `json:"comment"`
		Result  json.RawMessage `json:"result"`
	}

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if json.Unmarshal(data, &envelope) == nil && envelope.Comment != "" {
			return &model.UpstreamError{Service: "codeforces " + method, StatusCode: resp.StatusCode, Body: envelope.Comment}
		}
		return &model.UpstreamError{Service: "codeforces " + method, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Status != "OK" {
		return fmt.Errorf("codeforces %s failed: %s", method, envelope.Comment)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}
