package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/slashgate/internal/config"
)

func TestFromGlobalConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server.MaxBodySize = "64KB"
	cfg.Server.ShutdownTimeout = 3 * time.Second
	cfg.Slack.SigningSecret = "sig"

	wc, err := FromGlobalConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Listen:          "127.0.0.1:8080",
		CommandsPath:    "/slack/commands",
		OAuthPath:       "/slack/oauth/callback",
		MaxBodySize:     64 * 1024,
		SigningSecret:   "sig",
		ShutdownTimeout: 3 * time.Second,
	}, wc)
}

func TestFromGlobalConfigMetricsPath(t *testing.T) {
	cfg := config.Defaults()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/internal/metrics"

	wc, err := FromGlobalConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/internal/metrics", wc.MetricsPath)
}

func TestFromGlobalConfigErrors(t *testing.T) {
	_, err := FromGlobalConfig(nil)
	require.Error(t, err)

	cfg := config.Defaults()
	cfg.Server.MaxBodySize = "lots"
	_, err = FromGlobalConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid max_body_size")
}
