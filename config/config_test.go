package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"market-scraper/browser"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "https://steamcommunity.com/market/search?appid=730", cfg.StartURL)
	assert.Equal(t, 10, cfg.MaxPages)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.Equal(t, Retry{MaxAttempts: 3, Delay: 5 * time.Second}, cfg.Retry())
	assert.Equal(t, 30*time.Second, cfg.ListingTimeout)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 60*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 10*time.Second, cfg.QueryTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCRAPER_MAX_PAGES", "2")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("RETRY_DELAY_MS", "250")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("HEADLESS", "false")
	t.Setenv("ITEMS_PER_PAGE", "not-a-number")
	t.Setenv("NAVIGATION_TIMEOUT_SEC", "90")
	t.Setenv("QUERY_TIMEOUT_SEC", "4")
	t.Setenv("CHROME_BIN", "/opt/chrome")

	cfg := Load()
	assert.Equal(t, 2, cfg.MaxPages)
	assert.Equal(t, Retry{MaxAttempts: 5, Delay: 250 * time.Millisecond}, cfg.Retry())
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.Equal(t, browser.ChromeOptions{
		ExecPath:          "/opt/chrome",
		Headless:          false,
		NavigationTimeout: 90 * time.Second,
		QueryTimeout:      4 * time.Second,
	}, cfg.ChromeOptions())
}

func TestProxiedURL(t *testing.T) {
	cfg := &Config{ProxyURL: "http://api.scraperapi.com/?"}
	assert.Equal(t, "https://example.com/a", cfg.ProxiedURL("https://example.com/a"))

	cfg.ScraperAPIKey = "k1"
	assert.Equal(t,
		"http://api.scraperapi.com/?api_key=k1&url=https%3A%2F%2Fexample.com%2Fa",
		cfg.ProxiedURL("https://example.com/a"))
}
