package dbconfig

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// Config holds Postgres connection settings for the journal.
type Config struct {
	Host     string `env:"PAINANI_DB_HOST" envDefault:"localhost"`
	Port     int    `env:"PAINANI_DB_PORT" envDefault:"5432"`
	User     string `env:"PAINANI_DB_USER" envDefault:"postgres"`
	Password string `env:"PAINANI_DB_PASSWORD" envDefault:"postgres"`
	Database string `env:"PAINANI_DB_NAME" envDefault:"painani"`
	SSLMode  string `env:"PAINANI_DB_SSLMODE" envDefault:"disable"`
}

// NewConfigFromEnv reads PAINANI_DB_* environment variables (with defaults).
func NewConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse db env: %w", err)
	}
	return cfg, nil
}

// DSN returns the Postgres connection URL.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
