package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

const (
	siteURL         = "https://leetcode.com"
	graphQLEndpoint = siteURL + "/graphql"
	userAgent       = "Mozilla/5.0"

	maxUpcomingContests = 25
)

const dailyChallengeQuery = `query questionOfToday { activeDailyCodingChallengeQuestion { link question { questionFrontendId title titleSlug difficulty content topicTags { name } } } }`

const userStatsQuery = `query userStats($username: String!) { matchedUser(username: $username) { submitStats { acSubmissionNum { difficulty count } } } }`

const allContestsQuery = `query allContests { allContests { title titleSlug startTime duration } }`

// Client implements the LeetCode-facing ports using the public GraphQL endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     ports.Logger
	now        func() time.Time
}

var (
	_ ports.ProblemProvider = (*Client)(nil)
	_ ports.GraphQLGateway  = (*Client)(nil)
	_ ports.StatsProvider   = (*Client)(nil)
	_ ports.ContestProvider = (*Client)(nil)
)

// New creates a new LeetCode client.
func New(timeout time.Duration, logger ports.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   graphQLEndpoint,
		logger:     logger,
		now:        time.Now,
	}
}

// Platform implements ports.ContestProvider.
func (c *Client) Platform() model.Platform { return model.PlatformLeetCode }

// Query forwards a GraphQL document unchanged and returns the raw response body.
func (c *Client) Query(ctx context.Context, query string, variables json.RawMessage) (json.RawMessage, error) {
	return c.post(ctx, query, variables)
}

// GetDailyChallenge retrieves the daily LeetCode challenge.
func (c *Client) GetDailyChallenge(ctx context.Context) (*model.Problem, error) {
	var gqlResp struct {
		Data struct {
			ActiveDailyCodingChallengeQuestion struct {
				Link     string `json:"link"`
				Question struct {
					QuestionFrontendID string `json:"questionFrontendId"`
					Title              string `json:"title"`
					TitleSlug          string `json:"titleSlug"`
					Difficulty         string `json:"difficulty"`
					Content            string `json:"content"`
					TopicTags          []struct {
						Name string `json:"name"`
					} `json:"topicTags"`
				} `json:"question"`
			} `json:"activeDailyCodingChallengeQuestion"`
		} `json:"data"`
	}

	if err := c.query(ctx, dailyChallengeQuery, nil, &gqlResp); err != nil {
		return nil, err
	}

	q := gqlResp.Data.ActiveDailyCodingChallengeQuestion
	if q.Question.TitleSlug == "" {
		return nil, fmt.Errorf("empty daily challenge data")
	}

	topics := make([]string, 0, len(q.Question.TopicTags))
	for _, tag := range q.Question.TopicTags {
		topics = append(topics, tag.Name)
	}

	return &model.Problem{
		ID:         parseInt(q.Question.QuestionFrontendID),
		Title:      q.Question.Title,
		Slug:       q.Question.TitleSlug,
		Difficulty: q.Question.Difficulty,
		Link:       resolveLink(q.Question.TitleSlug, q.Link),
		Content:    strings.TrimSpace(htmlToText(q.Question.Content)),
		Topics:     topics,
	}, nil
}

// UserStats reports accepted problem counts per difficulty. LeetCode does not
// expose a contest rating through this query, so Rating is always nil.
func (c *Client) UserStats(ctx context.Context, username string) (*model.UserStats, error) {
	vars, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return nil, fmt.Errorf("marshal variables: %w", err)
	}

	var gqlResp struct {
		Data struct {
			MatchedUser *struct {
				SubmitStats struct {
					AcSubmissionNum []struct {
						Difficulty string `json:"difficulty"`
						Count      int    `json:"count"`
					} `json:"acSubmissionNum"`
				} `json:"submitStats"`
			} `json:"matchedUser"`
		} `json:"data"`
	}

	if err := c.query(ctx, userStatsQuery, vars, &gqlResp); err != nil {
		return nil, err
	}
	if gqlResp.Data.MatchedUser == nil {
		return nil, fmt.Errorf("leetcode user %q not found", username)
	}

	stats := &model.UserStats{Tags: make(map[string]int)}
	for _, item := range gqlResp.Data.MatchedUser.SubmitStats.AcSubmissionNum {
		if item.Difficulty == "All" {
			stats.TotalSolved = item.Count
			continue
		}
		stats.Tags[item.Difficulty] = item.Count
	}
	return stats, nil
}

// UpcomingContests returns the next contests ordered by start time.
func (c *Client) UpcomingContests(ctx context.Context) ([]model.Contest, error) {
	var gqlResp struct {
		Data struct {
			AllContests []struct {
				Title     string `json:"title"`
				TitleSlug string `json:"titleSlug"`
				StartTime int64  `json:"startTime"`
				Duration  int64  `json:"duration"`
			} `json:"allContests"`
		} `json:"data"`
	}

	if err := c.query(ctx, allContestsQuery, nil, &gqlResp); err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]model.Contest, 0)
	for _, ct := range gqlResp.Data.AllContests {
		start := time.Unix(ct.StartTime, 0).UTC()
		if !start.After(now) {
			continue
		}
		out = append(out, model.Contest{
			ID:        "lc-" + ct.TitleSlug,
			Platform:  model.PlatformLeetCode,
			Name:      ct.Title,
			StartTime: start,
			Duration:  time.Duration(ct.Duration) * time.Second,
			URL:       siteURL + "/contest/" + ct.TitleSlug + "/",
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if len(out) > maxUpcomingContests {
		out = out[:maxUpcomingContests]
	}
	return out, nil
}

func (c *Client) query(ctx context.Context, query string, variables json.RawMessage, out any) error {
	data, err := c.post(ctx, query, variables)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, query string, variables json.RawMessage) (json.RawMessage, error) {
	payload := struct {
		Query     string          `json:"query"`
		Variables json.RawMessage `json:"variables,omitempty"`
	}{Query: query, Variables: variables}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal graphql payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", siteURL)
	req.Header.Set("Origin", siteURL)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Service: "leetcode", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &model.UpstreamError{Service: "leetcode", StatusCode: resp.StatusCode, Body: string(data)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func parseInt(val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}

func resolveLink(slug, fallback string) string {
	if fallback != "" {
		return siteURL + fallback
	}
	return fmt.Sprintf("%s/problems/%s/", siteURL, slug)
}

func htmlToText(input string) string {
	if input == "" {
		return ""
	}

	node, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return input
	}

	var builder strings.Builder
	extractText(node, &builder)
	return builder.String()
}

func extractText(node *html.Node, builder *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
	case html.ElementNode:
		if node.Data == "br" || node.Data == "p" || node.Data == "li" {
			builder.WriteRune('\n')
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractText(child, builder)
	}

	if node.Type == html.ElementNode && (node.Data == "p" || node.Data == "li") {
		builder.WriteRune('\n')
	}
}
