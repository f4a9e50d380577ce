package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL      string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SiteURL         string
	SectionSelector string
	UserAgent       string
	ChromeBin       string
	FetchTimeoutSec int
	MaxRetries      int
	LinesFile       string

	FCMServerKey      string
	FCMRegistrationID string
	FCMDryRun         bool
	NotifyConcurrency int
	NotifyRatePerSec  float64

	CSVOutputPath string
	LogLevel      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "watcher"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "watcher"),
		PostgresDB:       getEnv("POSTGRES_DB", "skinbuy"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SiteURL:         getEnv("SITE_URL", "http://steamrmt.com/skinbuy.html"),
		SectionSelector: getEnv("SECTION_SELECTOR", "html > body > div.contents > div.inner > div.main > section"),
		UserAgent:       getEnv("USER_AGENT", ""),
		ChromeBin:       getEnv("CHROME_BIN", ""),
		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 60),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		LinesFile:       getEnv("LINES_FILE", ""),

		FCMServerKey:      getEnv("FCM_SERVER_KEY", ""),
		FCMRegistrationID: getEnv("FCM_REGISTRATION_ID", ""),
		FCMDryRun:         getEnvBool("FCM_DRY_RUN", false),
		NotifyConcurrency: getEnvInt("NOTIFY_CONCURRENCY", 0),
		NotifyRatePerSec:  getEnvFloat("NOTIFY_RATE_PER_SEC", 0),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string. DATABASE_URL wins over the
// individual POSTGRES_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// NotificationsEnabled reports whether FCM credentials are present.
func (c *Config) NotificationsEnabled() bool {
	return c.FCMServerKey != "" && c.FCMRegistrationID != ""
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	var errs []error
	if c.LinesFile == "" && c.SiteURL == "" {
		errs = append(errs, errors.New("SITE_URL is required unless LINES_FILE is set"))
	}
	if (c.FCMServerKey == "") != (c.FCMRegistrationID == "") {
		errs = append(errs, errors.New("FCM_SERVER_KEY and FCM_REGISTRATION_ID must be set together"))
	}
	if c.FetchTimeoutSec <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT_SEC must be positive"))
	}
	if c.NotifyConcurrency < 0 {
		errs = append(errs, errors.New("NOTIFY_CONCURRENCY must not be negative"))
	}
	return errors.Join(errs...)
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

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}
