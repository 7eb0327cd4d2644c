// Package config defines the top-level configuration for the swapdesk
// client and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by SWAPDESK_* environment
// variables.
type Config struct {
	Gateway  GatewayConfig  `toml:"gateway"`
	Wallet   WalletConfig   `toml:"wallet"`
	Storage  StorageConfig  `toml:"storage"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	Alerts   AlertsConfig   `toml:"alerts"`
	LogLevel string         `toml:"log_level"`
}

// GatewayConfig holds swap-server endpoints and session parameters.
type GatewayConfig struct {
	BaseURL  string   `toml:"base_url"`
	Subroute string   `toml:"subroute"`
	Accounts []string `toml:"accounts"`
	Timeout  duration `toml:"timeout"`
}

// WalletConfig holds the wallet accounts subscribed on the pipe and the
// passphrase protecting locally persisted secrets.
type WalletConfig struct {
	Passphrase string `toml:"passphrase"`
}

// StorageConfig selects and scopes the persistence backend.
type StorageConfig struct {
	// Backend is one of "memory", "redis", "postgres".
	Backend string `toml:"backend"`
	// Secure wraps the backend with passphrase encryption at rest.
	Secure bool `toml:"secure"`
	// TicketPrefix namespaces persisted ticket drafts per order book.
	TicketPrefix string `toml:"ticket_prefix"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
	Namespace  string `toml:"namespace"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN          string `toml:"dsn"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Database     string `toml:"database"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	SSLMode      string `toml:"ssl_mode"`
	PoolMaxConns int    `toml:"pool_max_conns"`
	PoolMinConns int    `toml:"pool_min_conns"`
}

// AlertsConfig tunes the on-screen alert queue.
type AlertsConfig struct {
	MinDuration duration `toml:"min_duration"`
	MaxDuration duration `toml:"max_duration"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Gateway: GatewayConfig{
			BaseURL:  "https://swap.swaplabs.io",
			Subroute: "/swap",
			Timeout:  duration{30 * time.Second},
		},
		Storage: StorageConfig{
			Backend:      "memory",
			Secure:       false,
			TicketPrefix: "ticket/",
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
			Namespace:  "swapdesk:",
		},
		Postgres: PostgresConfig{
			Host:         "localhost",
			Port:         5432,
			Database:     "swapdesk",
			User:         "swapdesk",
			SSLMode:      "disable",
			PoolMaxConns: 10,
			PoolMinConns: 2,
		},
		Alerts: AlertsConfig{
			MinDuration: duration{4 * time.Second},
			MaxDuration: duration{12 * time.Second},
		},
		LogLevel: "info",
	}
}

// validBackends enumerates the accepted values for StorageConfig.Backend.
var validBackends = map[string]bool{
	"memory":   true,
	"redis":    true,
	"postgres": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Gateway
	if c.Gateway.BaseURL == "" {
		errs = append(errs, "gateway: base_url must not be empty")
	} else if !strings.HasPrefix(c.Gateway.BaseURL, "http://") && !strings.HasPrefix(c.Gateway.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("gateway: base_url must start with http:// or https://, got %q", c.Gateway.BaseURL))
	}
	if c.Gateway.Timeout.Duration <= 0 {
		errs = append(errs, "gateway: timeout must be > 0")
	}

	// Storage
	backend := strings.ToLower(c.Storage.Backend)
	if !validBackends[backend] {
		errs = append(errs, fmt.Sprintf("storage: unknown backend %q (valid: memory, redis, postgres)", c.Storage.Backend))
	}
	if c.Storage.Secure && c.Wallet.Passphrase == "" {
		errs = append(errs, "storage: wallet.passphrase is required when storage.secure is set")
	}

	// Redis — only checked when selected.
	if backend == "redis" {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Postgres — only checked when selected.
	if backend == "postgres" && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// Alerts
	if c.Alerts.MinDuration.Duration <= 0 {
		errs = append(errs, "alerts: min_duration must be > 0")
	}
	if c.Alerts.MaxDuration.Duration < c.Alerts.MinDuration.Duration {
		errs = append(errs, "alerts: max_duration must not be below min_duration")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
