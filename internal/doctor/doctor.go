// Package doctor reports problems in a loaded slashgate configuration that
// would only surface once traffic arrives.
package doctor

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/mattjoyce/slashgate/internal/config"
	"github.com/mattjoyce/slashgate/internal/reply"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Path     string  `json:"path,omitempty"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor inspects a config that has already passed config.Load.
type Doctor struct {
	cfg    *config.Config
	getenv func(string) string
}

// New creates a Doctor reading environment variables from the process.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg, getenv: os.Getenv}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Path: d.cfg.SourcePath}

	d.validateRoutes(r)
	d.validateCommands(r)
	d.validateOAuth(r)
	d.warnMissingToken(r)
	d.warnUnsignedRequests(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

// validateRoutes checks that the configured paths do not shadow each other.
func (d *Doctor) validateRoutes(r *Result) {
	routes := map[string]string{
		"server.commands_path": d.cfg.Server.CommandsPath,
		"/healthz":             "/healthz",
	}
	if d.cfg.Slack.OAuthEnabled() {
		routes["server.oauth_path"] = d.cfg.Server.OAuthPath
	}
	if d.cfg.Metrics.Enabled {
		routes["metrics.path"] = d.cfg.Metrics.Path
	}

	fields := make([]string, 0, len(routes))
	for f := range routes {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	seen := make(map[string]string)
	for _, field := range fields {
		normalized := strings.TrimSuffix(routes[field], "/")
		if prev, exists := seen[normalized]; exists {
			d.addError(r, "routes", field,
				fmt.Sprintf("path %q conflicts with %s", routes[field], prev))
			continue
		}
		seen[normalized] = field
	}
}

// validateCommands checks canned replies the registry would silently rewrite.
func (d *Doctor) validateCommands(r *Result) {
	if len(d.cfg.Commands) == 0 {
		d.addWarning(r, "commands", "commands",
			"no commands configured; every command will be answered as invalid")
		return
	}

	names := make([]string, 0, len(d.cfg.Commands))
	for name := range d.cfg.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	trimmed := make(map[string]string)
	for _, name := range names {
		field := fmt.Sprintf("commands.%s", name)
		key := strings.TrimSpace(name)
		if prev, exists := trimmed[key]; exists {
			d.addError(r, "commands", field,
				fmt.Sprintf("command %q duplicates %q after trimming whitespace", name, prev))
		}
		trimmed[key] = name

		vis := d.cfg.Commands[name].Visibility
		if vis != "" && !reply.Visibility(vis).Valid() {
			d.addWarning(r, "commands", field+".visibility",
				fmt.Sprintf("unknown visibility %q will be sent as %s", vis, reply.Ephemeral))
		}
	}
}

// validateOAuth checks installation callback settings.
func (d *Doctor) validateOAuth(r *Result) {
	if !d.cfg.Slack.OAuthEnabled() {
		return
	}

	if d.cfg.Slack.RedirectURI == "" {
		d.addWarning(r, "oauth", "slack.redirect_uri",
			"redirect_uri is empty; Slack will use the app's default redirect URL")
	} else if u, err := url.Parse(d.cfg.Slack.RedirectURI); err != nil || !u.IsAbs() {
		d.addError(r, "oauth", "slack.redirect_uri",
			fmt.Sprintf("redirect_uri %q is not an absolute URL", d.cfg.Slack.RedirectURI))
	}

	if d.cfg.Slack.OAuthURL != "" {
		u, err := url.Parse(d.cfg.Slack.OAuthURL)
		switch {
		case err != nil || !u.IsAbs():
			d.addError(r, "oauth", "slack.oauth_url",
				fmt.Sprintf("oauth_url %q is not an absolute URL", d.cfg.Slack.OAuthURL))
		case u.Scheme != "https":
			d.addWarning(r, "oauth", "slack.oauth_url",
				"oauth_url is not https; client_secret will be sent in clear text")
		}
	}
}

// warnMissingToken flags a verification token variable that is unset now.
// The token is read per request, so this can be fixed without a restart.
func (d *Doctor) warnMissingToken(r *Result) {
	name := d.cfg.Slack.VerificationTokenEnv
	if d.getenv(name) == "" {
		d.addWarning(r, "env_vars", "slack.verification_token_env",
			fmt.Sprintf("%s is not set; every command will be rejected", name))
	}
}

func (d *Doctor) warnUnsignedRequests(r *Result) {
	if d.cfg.Slack.SigningSecret == "" {
		d.addWarning(r, "security", "slack.signing_secret",
			"signing_secret is empty; request signatures are not verified")
	}
}

// FormatHuman returns a human-readable validation report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	switch {
	case r.Valid && len(r.Warnings) == 0:
		b.WriteString("Configuration valid.\n")
		return b.String()
	case r.Valid:
		fmt.Fprintf(&b, "Configuration valid (%d warning(s))\n", len(r.Warnings))
	default:
		fmt.Fprintf(&b, "Configuration invalid (%d error(s), %d warning(s))\n", len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		if e.Field != "" {
			fmt.Fprintf(&b, "  ERROR [%s] %s: %s\n", e.Category, e.Field, e.Message)
		} else {
			fmt.Fprintf(&b, "  ERROR [%s] %s\n", e.Category, e.Message)
		}
	}
	for _, w := range r.Warnings {
		if w.Field != "" {
			fmt.Fprintf(&b, "  WARN  [%s] %s: %s\n", w.Category, w.Field, w.Message)
		} else {
			fmt.Fprintf(&b, "  WARN  [%s] %s\n", w.Category, w.Message)
		}
	}

	return b.String()
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
