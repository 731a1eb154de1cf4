package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mattjoyce/slashgate/internal/config"
	"github.com/mattjoyce/slashgate/internal/handler"
	"github.com/mattjoyce/slashgate/internal/metrics"
	"github.com/mattjoyce/slashgate/internal/oauth"
	"github.com/mattjoyce/slashgate/internal/storage"
	"github.com/mattjoyce/slashgate/internal/webhook"
)

// app holds the wired components for one server run.
type app struct {
	server   *webhook.Server
	registry *handler.Registry
	metrics  *metrics.Metrics
	db       *sql.DB
}

// buildApp wires the command pipeline, the optional installation store and
// the webhook server from cfg.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	wc, err := webhook.FromGlobalConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure webhook: %w", err)
	}

	entries := make(map[string]handler.Canned, len(cfg.Commands))
	for text, c := range cfg.Commands {
		entries[text] = handler.Canned{Reply: c.Reply, Visibility: c.Visibility}
	}
	registry := handler.NewRegistry(entries, logger.With("component", "registry"))

	a := &app{registry: registry}

	var handlerOpts []handler.Option
	var serverOpts []webhook.Option
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.Namespace)
		handlerOpts = append(handlerOpts, handler.WithObserver(a.metrics))
		serverOpts = append(serverOpts, webhook.WithMetrics(a.metrics))
	}

	if cfg.Slack.OAuthEnabled() {
		db, err := storage.OpenSQLite(ctx, cfg.State.Path)
		if err != nil {
			return nil, fmt.Errorf("open installation store: %w", err)
		}
		a.db = db
		exchanger := oauth.NewHTTPExchanger(oauth.ClientConfig{
			ClientID:     cfg.Slack.ClientID,
			ClientSecret: cfg.Slack.ClientSecret,
			RedirectURI:  cfg.Slack.RedirectURI,
			AccessURL:    cfg.Slack.OAuthURL,
		}, nil)
		serverOpts = append(serverOpts, webhook.WithOAuth(exchanger, storage.NewInstallationStore(db)))
	}

	cmdHandler := handler.New(
		registry,
		handler.EnvToken(cfg.Slack.VerificationTokenEnv),
		logger.With("component", "handler"),
		handlerOpts...,
	)
	a.server = webhook.New(wc, cmdHandler, logger.With("component", "webhook"), serverOpts...)
	return a, nil
}

// Close releases the installation store, if one was opened.
func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
