package doctor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/slashgate/internal/config"
)

func validConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Slack.SigningSecret = "sig"
	cfg.Commands = map[string]config.CommandConfig{
		"ping": {Reply: "pong", Visibility: "in_channel"},
	}
	return cfg
}

func newDoctor(cfg *config.Config, env map[string]string) *Doctor {
	d := New(cfg)
	d.getenv = func(k string) string { return env[k] }
	return d
}

func hasIssue(issues []Issue, category, field string) bool {
	for _, i := range issues {
		if i.Category == category && i.Field == field {
			return true
		}
	}
	return false
}

func TestValidate_ValidConfig(t *testing.T) {
	r := newDoctor(validConfig(), map[string]string{"SLACK_VERIFICATION_TOKEN": "x"}).Validate()

	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidate_MissingToken(t *testing.T) {
	r := newDoctor(validConfig(), nil).Validate()

	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "slack.verification_token_env", r.Warnings[0].Field)
	assert.Contains(t, r.Warnings[0].Message, "SLACK_VERIFICATION_TOKEN is not set")
}

func TestValidate_RouteConflicts(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/slack/commands/"

	r := newDoctor(cfg, map[string]string{"SLACK_VERIFICATION_TOKEN": "x"}).Validate()

	assert.False(t, r.Valid)
	assert.True(t, hasIssue(r.Errors, "routes", "server.commands_path"), "errors: %v", r.Errors)
}

func TestValidate_HealthzShadowed(t *testing.T) {
	cfg := validConfig()
	cfg.Server.CommandsPath = "/healthz"

	r := newDoctor(cfg, nil).Validate()
	assert.False(t, r.Valid)
}

func TestValidate_Commands(t *testing.T) {
	cfg := validConfig()
	cfg.Commands = map[string]config.CommandConfig{
		"ping":   {Reply: "pong"},
		" ping ": {Reply: "other"},
		"shout":  {Reply: "HI", Visibility: "everyone"},
	}

	r := newDoctor(cfg, nil).Validate()

	assert.False(t, r.Valid)
	assert.True(t, hasIssue(r.Errors, "commands", "commands.ping"))
	assert.True(t, hasIssue(r.Warnings, "commands", "commands.shout.visibility"))
}

func TestValidate_NoCommands(t *testing.T) {
	cfg := validConfig()
	cfg.Commands = nil

	r := newDoctor(cfg, nil).Validate()
	assert.True(t, r.Valid)
	assert.True(t, hasIssue(r.Warnings, "commands", "commands"))
}

func TestValidate_OAuth(t *testing.T) {
	tests := []struct {
		name      string
		redirect  string
		oauthURL  string
		wantValid bool
		wantWarn  string
		wantError string
	}{
		{name: "defaults", redirect: "https://example.com/cb", wantValid: true},
		{name: "no redirect", wantValid: true, wantWarn: "slack.redirect_uri"},
		{name: "relative redirect", redirect: "/cb", wantError: "slack.redirect_uri"},
		{name: "plain http exchange", redirect: "https://example.com/cb", oauthURL: "http://slack.local/api", wantValid: true, wantWarn: "slack.oauth_url"},
		{name: "relative exchange", redirect: "https://example.com/cb", oauthURL: "api/oauth", wantError: "slack.oauth_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Slack.ClientID = "cid"
			cfg.Slack.ClientSecret = "secret"
			cfg.Slack.RedirectURI = tt.redirect
			cfg.Slack.OAuthURL = tt.oauthURL

			r := newDoctor(cfg, map[string]string{"SLACK_VERIFICATION_TOKEN": "x"}).Validate()

			assert.Equal(t, tt.wantValid, r.Valid, "errors: %v", r.Errors)
			if tt.wantWarn != "" {
				assert.True(t, hasIssue(r.Warnings, "oauth", tt.wantWarn), "warnings: %v", r.Warnings)
			}
			if tt.wantError != "" {
				assert.True(t, hasIssue(r.Errors, "oauth", tt.wantError), "errors: %v", r.Errors)
			}
		})
	}
}

func TestFormatHuman(t *testing.T) {
	assert.Equal(t, "Configuration valid.\n", FormatHuman(&Result{Valid: true}))

	out := FormatHuman(&Result{
		Valid:    false,
		Errors:   []Issue{{Category: "routes", Field: "metrics.path", Message: "conflict"}},
		Warnings: []Issue{{Category: "security", Message: "unsigned"}},
	})
	assert.True(t, strings.HasPrefix(out, "Configuration invalid (1 error(s), 1 warning(s))"))
	assert.Contains(t, out, "ERROR [routes] metrics.path: conflict")
	assert.Contains(t, out, "WARN  [security] unsigned")
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(&Result{Valid: true, Path: "/etc/slashgate/config.yaml"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true,"path":"/etc/slashgate/config.yaml"}`, out)
}
