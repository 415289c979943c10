package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"codemate/internal/adapter/codeforces"
	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

// RodFetcher renders problem pages with go-rod. It does not observe HTTP
// status codes, so exhaustion always reports the status as unknown.
type RodFetcher struct {
	mirrors         []string
	execPath        string
	navTimeout      time.Duration
	selectorTimeout time.Duration
	logger          ports.Logger
}

var _ ports.PageFetcher = (*RodFetcher)(nil)

func NewRodFetcher(mirrors []string, execPath string, navTimeout, selectorTimeout time.Duration, logger ports.Logger) *RodFetcher {
	return &RodFetcher{
		mirrors:         mirrors,
		execPath:        execPath,
		navTimeout:      navTimeout,
		selectorTimeout: selectorTimeout,
		logger:          logger,
	}
}

// Name implements ports.PageFetcher.
func (f *RodFetcher) Name() string { return "browser" }

func (f *RodFetcher) launcher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("no-zygote")
	if f.execPath != "" {
		l = l.Bin(f.execPath)
	}
	return l
}

// Fetch launches a fresh browser with an incognito page and walks desktop and
// mobile candidates until the statement container appears.
func (f *RodFetcher) Fetch(ctx context.Context, ref model.ProblemRef) (*model.Page, error) {
	l := f.launcher(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch rod browser: %w", err)
	}
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect rod browser: %w", err)
	}
	defer browser.Close()

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("create incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := f.preparePage(page); err != nil {
		return nil, err
	}

	candidates := codeforces.BuildCandidates(ref, f.mirrors, codeforces.BrowserVariants)
	for _, c := range candidates {
		html, err := f.load(page, c.URL)
		if err != nil {
			f.logger.Warn(ctx, "browser candidate failed", "engine", "rod", "url", c.URL, "error", err)
			continue
		}
		if codeforces.IsChallengePage(html) {
			f.logger.Warn(ctx, "browser candidate served a challenge page", "engine", "rod", "url", c.URL)
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
		Source:   f.Name(),
		Attempts: len(candidates),
		FirstURL: candidates[0].URL,
	}
}

func (f *RodFetcher) preparePage(page *rod.Page) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      codeforces.UserAgent,
		AcceptLanguage: codeforces.BrowserHeaders["Accept-Language"],
	}); err != nil {
		return fmt.Errorf("set user agent: %w", err)
	}

	headers := make([]string, 0, len(codeforces.BrowserHeaders)*2)
	for k, v := range codeforces.BrowserHeaders {
		headers = append(headers, k, v)
	}
	if _, err := page.SetExtraHeaders(headers); err != nil {
		return fmt.Errorf("set extra headers: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	return nil
}

func (f *RodFetcher) load(page *rod.Page, url string) (string, error) {
	if err := page.Timeout(f.navTimeout).Navigate(url); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}
	if _, err := page.Timeout(f.selectorTimeout).Element(codeforces.StatementSelector); err != nil {
		return "", fmt.Errorf("wait for statement: %w", err)
	}
	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}
	return html, nil
}
