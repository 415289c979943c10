package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"codemate/internal/adapter/codeforces"
	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

const (
	viewportWidth  = 1280
	viewportHeight = 900
)

// ChromeFetcher renders problem pages in a headless Chrome driven over CDP.
type ChromeFetcher struct {
	mirrors         []string
	execPath        string
	navTimeout      time.Duration
	selectorTimeout time.Duration
	logger          ports.Logger
}

var _ ports.PageFetcher = (*ChromeFetcher)(nil)

// NewChromeFetcher creates a chromedp-backed fetcher. An empty execPath lets
// chromedp locate the browser binary itself.
func NewChromeFetcher(mirrors []string, execPath string, navTimeout, selectorTimeout time.Duration, logger ports.Logger) *ChromeFetcher {
	return &ChromeFetcher{
		mirrors:         mirrors,
		execPath:        execPath,
		navTimeout:      navTimeout,
		selectorTimeout: selectorTimeout,
		logger:          logger,
	}
}

// Name implements ports.PageFetcher.
func (f *ChromeFetcher) Name() string { return "browser" }

func (f *ChromeFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-zygote", true),
		chromedp.UserAgent(codeforces.UserAgent),
		chromedp.WindowSize(viewportWidth, viewportHeight),
	)
	if f.execPath != "" {
		opts = append(opts, chromedp.ExecPath(f.execPath))
	}
	return opts
}

// Fetch launches a fresh browser, walks desktop and mobile candidates and
// returns the first page whose statement container becomes ready.
func (f *ChromeFetcher) Fetch(ctx context.Context, ref model.ProblemRef) (*model.Page, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	headers := make(network.Headers, len(codeforces.BrowserHeaders))
	for k, v := range codeforces.BrowserHeaders {
		headers[k] = v
	}

	// The first Run allocates the browser and must not carry a deadline.
	if err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
	); err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	candidates := codeforces.BuildCandidates(ref, f.mirrors, codeforces.BrowserVariants)
	lastStatus := 0

	for _, c := range candidates {
		status, html, err := f.load(browserCtx, c.URL)
		if status != 0 {
			lastStatus = status
		}
		if err != nil {
			f.logger.Warn(ctx, "browser candidate failed", "engine", "chromedp", "url", c.URL, "error", err)
			continue
		}
		if codeforces.IsChallengePage(html) {
			f.logger.Warn(ctx, "browser candidate served a challenge page", "engine", "chromedp", "url", c.URL)
			continue
		}
		return &model.Page{
			HTML:    html,
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

func (f *ChromeFetcher) load(browserCtx context.Context, url string) (int, string, error) {
	navCtx, cancelNav := context.WithTimeout(browserCtx, f.navTimeout)
	defer cancelNav()

	resp, err := chromedp.RunResponse(navCtx, chromedp.Navigate(url))
	status := 0
	if resp != nil {
		status = int(resp.Status)
	}
	if err != nil {
		return status, "", fmt.Errorf("navigate: %w", err)
	}

	selCtx, cancelSel := context.WithTimeout(browserCtx, f.selectorTimeout)
	defer cancelSel()

	if err := chromedp.Run(selCtx, chromedp.WaitReady(codeforces.StatementSelector, chromedp.ByQuery)); err != nil {
		return status, "", fmt.Errorf("wait for statement: %w", err)
	}

	var html string
	if err := chromedp.Run(navCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return status, "", fmt.Errorf("read html: %w", err)
	}
	return status, html, nil
}
