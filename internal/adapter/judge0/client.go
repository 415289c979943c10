package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

var languageIDs = map[string]int{
	"c":          50,
	"cpp":        54,
	"cpp17":      54,
	"java":       62,
	"javascript": 63,
	"js":         63,
	"python":     71,
	"py":         71,
}

// LanguageID maps a language name or alias to its Judge0 identifier.
func LanguageID(language string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(strings.TrimSpace(language))]
	return id, ok
}

// Client submits code to a Judge0 instance and waits for the verdict.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	host       string
	logger     ports.Logger
}

var _ ports.CodeRunner = (*Client)(nil)

// New creates a Judge0 client. When host is set the key is sent as RapidAPI
// credentials, otherwise as X-Auth-Token.
func New(baseURL, key, host string, timeout time.Duration, logger ports.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        key,
		host:       host,
		logger:     logger,
	}
}

type submission struct {
	LanguageID             int    `json:"language_id"`
	SourceCode             string `json:"source_code"`
	Stdin                  string `json:"stdin"`
	RedirectStderrToStdout bool   `json:"redirect_stderr_to_stdout"`
}

type submissionResult struct {
	Status *struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Time          *string `json:"time"`
	Memory        *int    `json:"memory"`
}

// Run executes req synchronously on Judge0.
func (c *Client) Run(ctx context.Context, req model.RunRequest) (*model.RunResult, error) {
	langID, ok := LanguageID(req.Language)
	if !ok {
		return nil, &model.UnsupportedLanguageError{Language: req.Language}
	}

	body, err := json.Marshal(submission{
		LanguageID:             langID,
		SourceCode:             req.Code,
		Stdin:                  req.Stdin,
		RedirectStderrToStdout: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/submissions?base64_encoded=false&wait=true", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &model.UpstreamError{Service: "judge0", Err: fmt.Errorf("cannot reach Judge0 at %s: %w", c.baseURL, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.UpstreamError{Service: "judge0", StatusCode: resp.StatusCode, Body: string(data)}
	}

	var res submissionResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}

	out := &model.RunResult{
		Status:        "Unknown",
		Stdout:        deref(res.Stdout),
		Stderr:        deref(res.Stderr),
		CompileOutput: deref(res.CompileOutput),
		Time:          res.Time,
		Memory:        res.Memory,
	}
	if res.Status != nil {
		out.StatusID = res.Status.ID
		if res.Status.Description != "" {
			out.Status = res.Status.Description
		}
	}
	return out, nil
}

// Health returns the number of languages the Judge0 instance supports.
func (c *Client) Health(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/languages", http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &model.UpstreamError{Service: "judge0", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, &model.UpstreamError{Service: "judge0", StatusCode: resp.StatusCode, Body: string(data)}
	}

	var langs []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return 0, fmt.Errorf("decode languages: %w", err)
	}
	return len(langs), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.key == "" {
		return
	}
	if c.host != "" {
		req.Header.Set("X-RapidAPI-Key", c.key)
		req.Header.Set("X-RapidAPI-Host", c.host)
		return
	}
	req.Header.Set("X-Auth-Token", c.key)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
