package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"market-scraper/browser"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StartURL     string
	MaxPages     int
	ItemsPerPage int

	MaxRetries        int
	RetryDelay        time.Duration
	ListingTimeout    time.Duration
	ReadyTimeout      time.Duration
	ElementTimeout    time.Duration
	SettleDelay       time.Duration
	NavigationTimeout time.Duration
	QueryTimeout      time.Duration

	StoreDriver string
	SQLitePath  string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	HTTPAddr  string
	ChromeBin string
	Headless  bool

	ScraperAPIKey string
	ProxyURL      string

	LogLevel string
}

// Retry holds the fixed retry parameters of one pipeline run.
type Retry struct {
	MaxAttempts int
	Delay       time.Duration
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		StartURL:     getEnv("SCRAPER_URL", "https://steamcommunity.com/market/search?appid=730"),
		MaxPages:     getEnvInt("SCRAPER_MAX_PAGES", 10),
		ItemsPerPage: getEnvInt("ITEMS_PER_PAGE", 10),

		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		RetryDelay:        getEnvMillis("RETRY_DELAY_MS", 5000),
		ListingTimeout:    getEnvSeconds("LISTING_TIMEOUT_SEC", 30),
		ReadyTimeout:      getEnvSeconds("READY_TIMEOUT_SEC", 20),
		ElementTimeout:    getEnvSeconds("ELEMENT_TIMEOUT_SEC", 30),
		SettleDelay:       getEnvMillis("SETTLE_DELAY_MS", 5000),
		NavigationTimeout: getEnvSeconds("NAVIGATION_TIMEOUT_SEC", 60),
		QueryTimeout:      getEnvSeconds("QUERY_TIMEOUT_SEC", 10),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		SQLitePath:  getEnv("SQLITE_PATH", "steam_marketplace.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "market_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		HTTPAddr:  getEnv("HTTP_ADDR", ":5000"),
		ChromeBin: getEnv("CHROME_BIN", ""),
		Headless:  getEnvBool("HEADLESS", true),

		ScraperAPIKey: getEnv("SCRAPER_API_KEY", ""),
		ProxyURL:      getEnv("PROXY_URL", "http://api.scraperapi.com/?"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// ChromeOptions returns the browser settings of a pipeline run.
func (c *Config) ChromeOptions() browser.ChromeOptions {
	return browser.ChromeOptions{
		ExecPath:          c.ChromeBin,
		Headless:          c.Headless,
		NavigationTimeout: c.NavigationTimeout,
		QueryTimeout:      c.QueryTimeout,
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Retry returns the retry parameters handed to the pipeline.
func (c *Config) Retry() Retry {
	return Retry{MaxAttempts: c.MaxRetries, Delay: c.RetryDelay}
}

// ProxiedURL routes target through the ScraperAPI proxy when an API key is
// configured, and returns it unchanged otherwise.
func (c *Config) ProxiedURL(target string) string {
	if c.ScraperAPIKey == "" {
		return target
	}
	payload := url.Values{}
	payload.Set("api_key", c.ScraperAPIKey)
	payload.Set("url", target)
	return c.ProxyURL + payload.Encode()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
