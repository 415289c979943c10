package di

import (
	"log/slog"
	"net/http"
	"os"

	"codemate/internal/adapter/browser"
	"codemate/internal/adapter/cache"
	"codemate/internal/adapter/codechef"
	"codemate/internal/adapter/codeforces"
	"codemate/internal/adapter/discord"
	"codemate/internal/adapter/judge0"
	"codemate/internal/adapter/leetcode"
	"codemate/internal/adapter/logging"
	"codemate/internal/app"
	"codemate/internal/config"
	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
	"codemate/internal/httpapi"
	"codemate/internal/usecase"
)

func provideSlogLogger(cfg *config.Config) *slog.Logger {
	return logging.NewHandlerLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
}

func provideCache(cfg *config.Config) (ports.StatementCache, error) {
	return cache.Open(cfg.CacheBackend, cfg.CachePath, cfg.CacheTTL, nil)
}

func provideBrowserFetcher(cfg *config.Config, logger ports.Logger) ports.PageFetcher {
	if cfg.BrowserEngine == config.EngineRod {
		return browser.NewRodFetcher(cfg.CFMirrors, cfg.BrowserExecPath, cfg.NavigationTimeout, cfg.SelectorTimeout, logger)
	}
	return browser.NewChromeFetcher(cfg.CFMirrors, cfg.BrowserExecPath, cfg.NavigationTimeout, cfg.SelectorTimeout, logger)
}

func provideFetcherChains(cfg *config.Config, logger ports.Logger) usecase.FetcherChains {
	direct := []ports.PageFetcher{codeforces.NewHTTPFetcher(cfg.CFMirrors, cfg.RequestTimeout, logger)}
	headless := provideBrowserFetcher(cfg, logger)
	if cfg.BrowserFallback {
		direct = append(direct, headless)
	}
	return usecase.FetcherChains{
		model.FetchDirect:  direct,
		model.FetchBrowser: {headless},
	}
}

func provideExtract() usecase.ExtractFunc {
	return codeforces.Extract
}

func provideCodeforcesAPI(cfg *config.Config, logger ports.Logger) *codeforces.APIClient {
	return codeforces.NewAPIClient(cfg.RequestTimeout, cfg.CFAPIRPS, logger)
}

func provideLeetCode(cfg *config.Config, logger ports.Logger) *leetcode.Client {
	return leetcode.New(cfg.RequestTimeout, logger)
}

func provideCodeChef(cfg *config.Config, logger ports.Logger) *codechef.Client {
	return codechef.New(cfg.RequestTimeout, logger)
}

func provideJudge0(cfg *config.Config, logger ports.Logger) *judge0.Client {
	return judge0.New(cfg.Judge0URL, cfg.Judge0Key, cfg.Judge0Host, cfg.RequestTimeout, logger)
}

func provideStatsService(cf *codeforces.APIClient, lc *leetcode.Client, logger ports.Logger) *usecase.StatsService {
	return usecase.NewStatsService(cf, lc, logger)
}

func provideContestAggregator(
	cfg *config.Config,
	logger ports.Logger,
	cf *codeforces.APIClient,
	cc *codechef.Client,
	lc *leetcode.Client,
) *usecase.ContestAggregator {
	return usecase.NewContestAggregator(logger, cfg.ContestRefreshTTL, cf, cc, lc)
}

// provideDigest returns nil when no webhook is configured.
func provideDigest(
	cfg *config.Config,
	contests *usecase.ContestAggregator,
	lc *leetcode.Client,
	logger ports.Logger,
) *usecase.ContestDigest {
	if cfg.DiscordWebhookURL == "" {
		return nil
	}
	notifier := discord.NewWebhook(cfg.DiscordWebhookURL, cfg.RequestTimeout, logger)
	return usecase.NewContestDigest(contests, lc, notifier, logger, cfg.DigestWindow)
}

func provideServer(
	cfg *config.Config,
	statements *usecase.StatementService,
	stats *usecase.StatsService,
	contests *usecase.ContestAggregator,
	runner *judge0.Client,
	lc *leetcode.Client,
	cc *codechef.Client,
	logger ports.Logger,
) *httpapi.Server {
	return httpapi.NewServer(httpapi.Deps{
		Statements:  statements,
		Stats:       stats,
		Contests:    contests,
		Runner:      runner,
		LeetCode:    lc,
		CodeChef:    cc,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})
}

func provideHandler(server *httpapi.Server) http.Handler {
	return server.Handler()
}

func provideAppOptions(cfg *config.Config, contests *usecase.ContestAggregator, digest *usecase.ContestDigest) app.Options {
	opts := app.Options{
		Addr:        cfg.Addr(),
		RefreshCron: cfg.ContestRefreshCron,
		Refresh:     contests.Refresh,
	}
	if digest != nil {
		opts.DigestCron = cfg.DigestCron
		opts.Digest = digest.Run
	}
	return opts
}
