// Package app provides the top-level application lifecycle for the swapdesk
// client. It wires together the persistence backend, the alert queue, and
// the gateway, and keeps the trading session alive until shutdown.
package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/swaplabs/swapdesk/internal/config"
	"github.com/swaplabs/swapdesk/internal/gateway"
)

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions that are called in reverse order on
// shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, warms the trading session, and blocks until
// the context is cancelled. The session stays up across server drops; the
// gateway reconnects on its own.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("backend", a.cfg.Storage.Backend),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, cleanup)

	streamed := []gateway.EventType{
		gateway.EventTrade, gateway.EventLevel,
		gateway.EventOrder, gateway.EventPool,
	}
	for _, event := range streamed {
		event := event
		deps.Gateway.Events().Subscribe(event, func(data json.RawMessage) {
			a.logger.Debug("stream event",
				slog.String("type", string(event)),
				slog.Int("bytes", len(data)),
			)
		})
	}

	if err := deps.Gateway.WarmUp(ctx); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "session up",
		slog.String("base_url", a.cfg.Gateway.BaseURL),
		slog.Int("accounts", len(a.cfg.Gateway.Accounts)),
	)

	<-ctx.Done()
	return ctx.Err()
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
