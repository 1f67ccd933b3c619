// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries everything the scraper reads from the environment.
// Database credentials are environment-only so they never land in the
// repo; a .env file works for local runs.
type Config struct {
	ServiceEnvironment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`

	DBHost string `envconfig:"SQL_DB_HOST" default:"localhost"`
	DBPort int    `envconfig:"SQL_DB_PORT" default:"5432"`
	DBUser string `envconfig:"SQL_DB_USER"`
	DBPass string `envconfig:"SQL_DB_PASS"`
	DBName string `envconfig:"SQL_DB_NAME" default:"volunteering_data"`

	ScraperStartURL   string `envconfig:"SCRAPER_START_URL"`
	ScraperHeadless   bool   `envconfig:"SCRAPER_HEADLESS" default:"true"`
	ScraperChromePath string `envconfig:"SCRAPER_CHROME_PATH"`
	ScraperTimeoutSec int    `envconfig:"SCRAPER_TIMEOUT_SEC" default:"0"`
	ScraperSettleMS   int    `envconfig:"SCRAPER_SETTLE_MS" default:"2000"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// DSN returns the Postgres connection string for the scrape database.
// Credentials are checked here rather than at load time so runs that
// never touch the database work without them.
func (c *Config) DSN() (string, error) {
	if c.DBUser == "" || c.DBPass == "" {
		return "", fmt.Errorf("database credentials missing: set SQL_DB_USER and SQL_DB_PASS")
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPass),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   c.DBName,
	}
	return u.String(), nil
}

// ActionTimeout returns the per-browser-action cap, zero when uncapped.
func (c *Config) ActionTimeout() time.Duration {
	return time.Duration(c.ScraperTimeoutSec) * time.Second
}

// SettleDelay returns how long the browser waits after each navigation
// or click.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.ScraperSettleMS) * time.Millisecond
}
