package config

import "time"

// Config represents the complete slashgate configuration.
type Config struct {
	Service  ServiceConfig            `yaml:"service"`
	Server   ServerConfig             `yaml:"server"`
	Slack    SlackConfig              `yaml:"slack"`
	State    StateConfig              `yaml:"state"`
	Metrics  MetricsConfig            `yaml:"metrics"`
	Commands map[string]CommandConfig `yaml:"commands,omitempty"`

	// SourcePath is the absolute path the config was loaded from.
	SourcePath string `yaml:"-"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	CommandsPath    string        `yaml:"commands_path"`
	OAuthPath       string        `yaml:"oauth_path"`
	MaxBodySize     string        `yaml:"max_body_size"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SlackConfig holds credentials for verifying requests and completing OAuth.
type SlackConfig struct {
	// VerificationTokenEnv names the environment variable holding the
	// verification token. It is read on every request.
	VerificationTokenEnv string `yaml:"verification_token_env"`

	// SigningSecret enables X-Slack-Signature verification when set.
	SigningSecret string `yaml:"signing_secret,omitempty"`

	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`
	RedirectURI  string `yaml:"redirect_uri,omitempty"`
	OAuthURL     string `yaml:"oauth_url,omitempty"`
}

// OAuthEnabled reports whether the installation callback should be served.
func (s SlackConfig) OAuthEnabled() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// StateConfig defines state storage settings.
type StateConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// CommandConfig is a canned reply for one command text.
type CommandConfig struct {
	Reply      string `yaml:"reply"`
	Visibility string `yaml:"visibility,omitempty"`
}

// ChecksumManifest is the on-disk .checksums format.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "slashgate",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Server: ServerConfig{
			Listen:          "127.0.0.1:8080",
			CommandsPath:    "/slack/commands",
			OAuthPath:       "/slack/oauth/callback",
			MaxBodySize:     "1MB",
			ShutdownTimeout: 5 * time.Second,
		},
		Slack: SlackConfig{
			VerificationTokenEnv: "SLACK_VERIFICATION_TOKEN",
		},
		State: StateConfig{
			Path: "./data/state.db",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Path:      "/metrics",
			Namespace: "slashgate",
		},
		Commands: make(map[string]CommandConfig),
	}
}
