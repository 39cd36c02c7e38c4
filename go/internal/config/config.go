// Package config loads client settings from an optional YAML file overlaid
// with PAINANI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/painani/go/internal/dbconfig"
)

// Transports.
const (
	TransportWebsocket = "websocket"
	TransportNATS      = "nats"
)

// Journal drivers. An empty driver disables the journal.
const (
	JournalSQLite   = "sqlite"
	JournalPostgres = "postgres"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server         ServerConfig  `yaml:"server"`
	Transport      string        `yaml:"transport" env:"PAINANI_TRANSPORT"`
	NATS           NATSConfig    `yaml:"nats"`
	Overlay        OverlayConfig `yaml:"overlay"`
	Journal        JournalConfig `yaml:"journal"`
	LogLevel       string        `yaml:"log_level" env:"PAINANI_LOG_LEVEL"`
	Language       string        `yaml:"language" env:"PAINANI_LANGUAGE"`
	MosaicImage    string        `yaml:"mosaic_image" env:"PAINANI_MOSAIC_IMAGE"`
	SentinelPrefix string        `yaml:"sentinel_prefix" env:"PAINANI_SENTINEL_PREFIX"`
}

type ServerConfig struct {
	BaseURL string `yaml:"base_url" env:"PAINANI_SERVER_URL"`
	WSPath  string `yaml:"ws_path" env:"PAINANI_WS_PATH"`
}

type NATSConfig struct {
	URL           string `yaml:"url" env:"PAINANI_NATS_URL"`
	Stream        string `yaml:"stream" env:"PAINANI_NATS_STREAM"`
	SubjectFilter string `yaml:"subject_filter" env:"PAINANI_NATS_SUBJECT_FILTER"`
	IntentPrefix  string `yaml:"intent_prefix" env:"PAINANI_NATS_INTENT_PREFIX"`
}

type OverlayConfig struct {
	Enabled        bool     `yaml:"enabled" env:"PAINANI_OVERLAY_ENABLED"`
	Addr           string   `yaml:"addr" env:"PAINANI_OVERLAY_ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"PAINANI_OVERLAY_ALLOWED_ORIGINS" envSeparator:","`
}

type JournalConfig struct {
	Driver string `yaml:"driver" env:"PAINANI_JOURNAL_DRIVER"`
	DSN    string `yaml:"dsn" env:"PAINANI_JOURNAL_DSN"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
			WSPath:  "/ws",
		},
		Transport: TransportWebsocket,
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			Stream:        "PAINANI_EVENTS",
			SubjectFilter: "painani.events.>",
			IntentPrefix:  "painani.intents",
		},
		Overlay: OverlayConfig{
			Addr: ":8090",
		},
		LogLevel:    "info",
		Language:    "es",
		MosaicImage: "/static/mosaico.jpg",
	}
}

// Load reads path when it is non-empty, then applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Journal.Driver == JournalPostgres && cfg.Journal.DSN == "" {
		db, err := dbconfig.NewConfigFromEnv()
		if err != nil {
			return Config{}, err
		}
		cfg.Journal.DSN = db.DSN()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server base url %q", ErrInvalid, c.Server.BaseURL)
	}
	switch c.Transport {
	case TransportWebsocket:
	case TransportNATS:
		if c.NATS.URL == "" || c.NATS.SubjectFilter == "" || c.NATS.IntentPrefix == "" {
			return fmt.Errorf("%w: nats transport needs url, subject filter and intent prefix", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: transport %q", ErrInvalid, c.Transport)
	}
	switch c.Journal.Driver {
	case "":
	case JournalSQLite, JournalPostgres:
		if c.Journal.DSN == "" {
			return fmt.Errorf("%w: journal %s needs a dsn", ErrInvalid, c.Journal.Driver)
		}
	default:
		return fmt.Errorf("%w: journal driver %q", ErrInvalid, c.Journal.Driver)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// WebsocketURL is the event socket address derived from the server URL.
func (c Config) WebsocketURL() string {
	base := strings.TrimRight(c.Server.BaseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	path := c.Server.WSPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
