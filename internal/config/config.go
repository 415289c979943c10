package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains runtime configuration values.
type Config struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`

	CacheBackend string        `yaml:"cache_backend"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	CachePath    string        `yaml:"cache_path"`

	BrowserEngine     string        `yaml:"browser_engine"`
	BrowserExecPath   string        `yaml:"browser_exec_path"`
	BrowserFallback   bool          `yaml:"browser_fallback"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	SelectorTimeout   time.Duration `yaml:"selector_timeout"`

	CFMirrors []string `yaml:"cf_mirrors"`
	CFAPIRPS  float64  `yaml:"cf_api_rps"`

	Judge0URL  string `yaml:"judge0_url"`
	Judge0Key  string `yaml:"judge0_key"`
	Judge0Host string `yaml:"judge0_host"`

	DiscordWebhookURL  string        `yaml:"discord_webhook_url"`
	DigestCron         string        `yaml:"digest_cron"`
	DigestWindow       time.Duration `yaml:"digest_window"`
	ContestRefreshCron string        `yaml:"contest_refresh_cron"`
	ContestRefreshTTL  time.Duration `yaml:"contest_refresh_ttl"`
}

// Headless browser engines.
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
)

const (
	defaultPort              = 5000
	defaultTimeout           = 30 * time.Second
	defaultCacheBackend      = "memory"
	defaultCacheTTL          = 10 * time.Minute
	defaultSQLitePath        = "codemate-cache.db"
	defaultLevelDBPath       = "codemate-cache"
	defaultBrowserEngine     = EngineChromedp
	defaultNavigationTimeout = 30 * time.Second
	defaultSelectorTimeout   = 7 * time.Second
	defaultCFAPIRPS          = 2
	defaultJudge0URL         = "http://localhost:2358"
	defaultDigestCron        = "0 9 * * *" // 09:00 every day
	defaultDigestWindow      = 48 * time.Hour
	defaultRefreshCron       = "*/15 * * * *"
	defaultRefreshTTL        = 15 * time.Minute
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
)

// Default returns a Config with sane defaults.
func Default() *Config {
	return &Config{
		Port:               defaultPort,
		RequestTimeout:     defaultTimeout,
		CORSOrigins:        []string{"*"},
		LogLevel:           defaultLogLevel,
		LogFormat:          defaultLogFormat,
		CacheBackend:       defaultCacheBackend,
		CacheTTL:           defaultCacheTTL,
		BrowserEngine:      defaultBrowserEngine,
		NavigationTimeout:  defaultNavigationTimeout,
		SelectorTimeout:    defaultSelectorTimeout,
		CFAPIRPS:           defaultCFAPIRPS,
		Judge0URL:          defaultJudge0URL,
		DigestCron:         defaultDigestCron,
		DigestWindow:       defaultDigestWindow,
		ContestRefreshCron: defaultRefreshCron,
		ContestRefreshTTL:  defaultRefreshTTL,
	}
}

// Load builds a Config from defaults, an optional YAML file and environment
// variables, in that order. An empty path falls back to CODEMATE_CONFIG.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CODEMATE_CONFIG")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = parseIntDefault("PORT", c.Port)
	c.RequestTimeout = parseDurationDefault("REQUEST_TIMEOUT", c.RequestTimeout)
	c.CORSOrigins = splitListDefault("CORS_ORIGINS", c.CORSOrigins)
	c.LogLevel = getenvDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenvDefault("LOG_FORMAT", c.LogFormat)

	c.CacheBackend = getenvDefault("CACHE_BACKEND", c.CacheBackend)
	c.CacheTTL = parseDurationDefault("CACHE_TTL", c.CacheTTL)
	c.CachePath = getenvDefault("CACHE_PATH", c.CachePath)

	c.BrowserEngine = getenvDefault("BROWSER_ENGINE", c.BrowserEngine)
	c.BrowserExecPath = getenvDefault("BROWSER_EXEC_PATH", c.BrowserExecPath)
	c.BrowserFallback = parseBoolDefault("BROWSER_FALLBACK", c.BrowserFallback)
	c.NavigationTimeout = parseDurationDefault("NAVIGATION_TIMEOUT", c.NavigationTimeout)
	c.SelectorTimeout = parseDurationDefault("SELECTOR_TIMEOUT", c.SelectorTimeout)

	c.CFMirrors = splitListDefault("CF_MIRRORS", c.CFMirrors)
	c.CFAPIRPS = parseFloatDefault("CF_API_RPS", c.CFAPIRPS)

	c.Judge0URL = getenvDefault("JUDGE0_URL", c.Judge0URL)
	c.Judge0Key = getenvDefault("JUDGE0_KEY", c.Judge0Key)
	c.Judge0Host = getenvDefault("JUDGE0_HOST", c.Judge0Host)

	c.DiscordWebhookURL = getenvDefault("DISCORD_WEBHOOK_URL", c.DiscordWebhookURL)
	c.DigestCron = getenvDefault("DIGEST_CRON", c.DigestCron)
	c.DigestWindow = parseDurationDefault("DIGEST_WINDOW", c.DigestWindow)
	c.ContestRefreshCron = getenvDefault("CONTEST_REFRESH_CRON", c.ContestRefreshCron)
	c.ContestRefreshTTL = parseDurationDefault("CONTEST_REFRESH_TTL", c.ContestRefreshTTL)
}

// Validate rejects unknown backends and non-positive durations, and fills in
// backend-specific cache paths.
func (c *Config) Validate() error {
	c.CacheBackend = strings.ToLower(strings.TrimSpace(c.CacheBackend))
	switch c.CacheBackend {
	case "memory":
	case "sqlite":
		if c.CachePath == "" {
			c.CachePath = defaultSQLitePath
		}
	case "leveldb":
		if c.CachePath == "" {
			c.CachePath = defaultLevelDBPath
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want memory, sqlite or leveldb)", c.CacheBackend)
	}

	c.BrowserEngine = strings.ToLower(strings.TrimSpace(c.BrowserEngine))
	if c.BrowserEngine != EngineChromedp && c.BrowserEngine != EngineRod {
		return fmt.Errorf("unknown browser engine %q (want chromedp or rod)", c.BrowserEngine)
	}

	durations := map[string]time.Duration{
		"request_timeout":     c.RequestTimeout,
		"cache_ttl":           c.CacheTTL,
		"navigation_timeout":  c.NavigationTimeout,
		"selector_timeout":    c.SelectorTimeout,
		"digest_window":       c.DigestWindow,
		"contest_refresh_ttl": c.ContestRefreshTTL,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseFloatDefault(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func parseBoolDefault(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func splitListDefault(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
