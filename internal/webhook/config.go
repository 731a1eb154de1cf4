package webhook

import (
	"fmt"

	"github.com/mattjoyce/slashgate/internal/config"
)

// FromGlobalConfig converts the loaded service config to webhook.Config.
func FromGlobalConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("config is nil")
	}

	maxBodySize, err := config.ParseSize(cfg.Server.MaxBodySize)
	if err != nil {
		return Config{}, fmt.Errorf("invalid max_body_size %q: %w", cfg.Server.MaxBodySize, err)
	}

	wc := Config{
		Listen:          cfg.Server.Listen,
		CommandsPath:    cfg.Server.CommandsPath,
		OAuthPath:       cfg.Server.OAuthPath,
		MaxBodySize:     maxBodySize,
		SigningSecret:   cfg.Slack.SigningSecret,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	if cfg.Metrics.Enabled {
		wc.MetricsPath = cfg.Metrics.Path
	}
	return wc, nil
}
