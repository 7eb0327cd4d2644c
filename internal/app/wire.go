package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/swaplabs/swapdesk/internal/alert"
	"github.com/swaplabs/swapdesk/internal/config"
	"github.com/swaplabs/swapdesk/internal/gateway"
	"github.com/swaplabs/swapdesk/internal/storage"
	"github.com/swaplabs/swapdesk/internal/storage/postgres"
	"github.com/swaplabs/swapdesk/internal/storage/redis"
)

// Dependencies bundles everything the running session needs. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Store   storage.Store
	Alerts  *alert.Queue
	Gateway *gateway.Client
}

// Wire constructs the concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, err := newStore(ctx, cfg, &closers)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	alerts := alert.New(logger, alert.WithBounds(
		cfg.Alerts.MinDuration.Duration,
		cfg.Alerts.MaxDuration.Duration,
	))

	client := gateway.New(
		gateway.Config{
			BaseURL:  cfg.Gateway.BaseURL,
			Subroute: cfg.Gateway.Subroute,
			Accounts: cfg.Gateway.Accounts,
			Timeout:  cfg.Gateway.Timeout.Duration,
		},
		store,
		alerts,
		logger,
		nil, // headless: the pipe reconnects for the whole process lifetime
	)
	closers = append(closers, func() { _ = client.Close() })

	return &Dependencies{Store: store, Alerts: alerts, Gateway: client}, cleanup, nil
}

// newStore builds the configured persistence backend, optionally wrapped
// with encryption at rest.
func newStore(ctx context.Context, cfg *config.Config, closers *[]func()) (storage.Store, error) {
	var store storage.Store

	switch strings.ToLower(cfg.Storage.Backend) {
	case "", "memory":
		store = storage.NewMemory()
	case "redis":
		client, err := redis.New(ctx, redis.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
			Namespace:  cfg.Redis.Namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("wire: redis: %w", err)
		}
		*closers = append(*closers, func() { _ = client.Close() })
		store = client
	case "postgres":
		client, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("wire: postgres: %w", err)
		}
		*closers = append(*closers, client.Close)
		store = client
	default:
		return nil, fmt.Errorf("wire: unsupported storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Storage.Secure {
		secure, err := storage.NewSecure(store, cfg.Wallet.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("wire: secure store: %w", err)
		}
		store = secure
	}
	return store, nil
}
