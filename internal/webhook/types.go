package webhook

import (
	"context"
	"time"

	"github.com/mattjoyce/slashgate/internal/handler"
	"github.com/mattjoyce/slashgate/internal/oauth"
	"github.com/mattjoyce/slashgate/internal/reply"
)

// CommandHandler processes a slash command body.
type CommandHandler interface {
	Handle(ctx context.Context, ev handler.Event) (reply.Message, error)
}

// InstallationSaver persists a completed installation.
type InstallationSaver interface {
	Save(ctx context.Context, inst *oauth.Installation) (string, error)
}

// Config holds webhook server configuration.
type Config struct {
	Listen       string
	CommandsPath string
	OAuthPath    string
	MetricsPath  string

	// MaxBodySize is the maximum allowed request body size in bytes (default: 1MB)
	MaxBodySize int64

	// SigningSecret enables Slack request signature verification when non-empty.
	SigningSecret string

	ShutdownTimeout time.Duration
}

// InstallResponse is the JSON response for a completed installation.
type InstallResponse struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Channel  string `json:"channel"`
}

// ErrorResponse is the JSON response for webhook errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Default values
const (
	DefaultMaxBodySize     = 1048576 // 1 MB
	DefaultCommandsPath    = "/slack/commands"
	DefaultOAuthPath       = "/slack/oauth/callback"
	DefaultMetricsPath     = "/metrics"
	DefaultShutdownTimeout = 5 * time.Second
)

// Install outcomes reported to metrics.
const (
	installStored          = "stored"
	installDenied          = "denied"
	installExchangeFailed  = "exchange_failed"
	installInvalidResponse = "invalid_response"
	installStoreFailed     = "store_failed"
)
