package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "REQUEST_TIMEOUT", "CACHE_BACKEND", "CACHE_TTL", "CACHE_PATH", "BROWSER_ENGINE",
		"BROWSER_EXEC_PATH", "BROWSER_FALLBACK", "NAVIGATION_TIMEOUT", "SELECTOR_TIMEOUT", "CF_MIRRORS",
		"CF_API_RPS", "JUDGE0_URL", "JUDGE0_KEY", "JUDGE0_HOST", "DISCORD_WEBHOOK_URL", "DIGEST_CRON",
		"DIGEST_WINDOW", "CONTEST_REFRESH_CRON", "CONTEST_REFRESH_TTL", "CORS_ORIGINS", "LOG_LEVEL",
		"LOG_FORMAT", "CODEMATE_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "chromedp", cfg.BrowserEngine)
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 7*time.Second, cfg.SelectorTimeout)
	assert.False(t, cfg.BrowserFallback)
	assert.Equal(t, float64(2), cfg.CFAPIRPS)
	assert.Equal(t, "0 9 * * *", cfg.DigestCron)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JUDGE_SECRET", "s3cret")

	path := filepath.Join(t.TempDir(), "codemate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
cache_backend: sqlite
cache_ttl: 5m
browser_engine: rod
browser_fallback: true
cf_mirrors:
  - https://mirror.codeforces.com
judge0_key: ${JUDGE_SECRET}
`), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("CF_MIRRORS", "https://codeforces.com, https://m1.codeforces.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite", cfg.CacheBackend)
	assert.Equal(t, "codemate-cache.db", cfg.CachePath)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "rod", cfg.BrowserEngine)
	assert.True(t, cfg.BrowserFallback)
	assert.Equal(t, "s3cret", cfg.Judge0Key)
	assert.Equal(t, []string{"https://codeforces.com", "https://m1.codeforces.com"}, cfg.CFMirrors)
}

func TestLoadUsesConfigEnvPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_backend: leveldb\n"), 0o600))
	t.Setenv("CODEMATE_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "leveldb", cfg.CacheBackend)
	assert.Equal(t, "codemate-cache", cfg.CachePath)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"CACHE_BACKEND":    "redis",
		"BROWSER_ENGINE":   "playwright",
		"CACHE_TTL":        "-1s",
		"SELECTOR_TIMEOUT": "0s",
		"PORT":             "70000",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}
