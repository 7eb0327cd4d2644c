package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SWAPDESK_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SWAPDESK_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Gateway ──
	setStr(&cfg.Gateway.BaseURL, "SWAPDESK_GATEWAY_BASE_URL")
	setStr(&cfg.Gateway.Subroute, "SWAPDESK_GATEWAY_SUBROUTE")
	setStringSlice(&cfg.Gateway.Accounts, "SWAPDESK_GATEWAY_ACCOUNTS")
	setDuration(&cfg.Gateway.Timeout, "SWAPDESK_GATEWAY_TIMEOUT")

	// ── Wallet ──
	setStr(&cfg.Wallet.Passphrase, "SWAPDESK_WALLET_PASSPHRASE")

	// ── Storage ──
	setStr(&cfg.Storage.Backend, "SWAPDESK_STORAGE_BACKEND")
	setBool(&cfg.Storage.Secure, "SWAPDESK_STORAGE_SECURE")
	setStr(&cfg.Storage.TicketPrefix, "SWAPDESK_STORAGE_TICKET_PREFIX")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "SWAPDESK_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SWAPDESK_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SWAPDESK_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SWAPDESK_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "SWAPDESK_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "SWAPDESK_REDIS_TLS_ENABLED")
	setStr(&cfg.Redis.Namespace, "SWAPDESK_REDIS_NAMESPACE")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "SWAPDESK_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "SWAPDESK_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "SWAPDESK_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "SWAPDESK_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "SWAPDESK_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "SWAPDESK_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "SWAPDESK_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "SWAPDESK_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "SWAPDESK_POSTGRES_POOL_MIN_CONNS")

	// ── Alerts ──
	setDuration(&cfg.Alerts.MinDuration, "SWAPDESK_ALERTS_MIN_DURATION")
	setDuration(&cfg.Alerts.MaxDuration, "SWAPDESK_ALERTS_MAX_DURATION")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "SWAPDESK_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
