package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultAccessURL is Slack's legacy token-exchange endpoint.
const DefaultAccessURL = "https://slack.com/api/oauth.access"

const maxResponseSize = 1 << 20

//go:generate mockgen -destination=mocks/mock_exchanger.go -package=mocks github.com/mattjoyce/slashgate/internal/oauth Exchanger

// Exchanger trades an OAuth authorization code for the raw token-exchange response.
type Exchanger interface {
	Exchange(ctx context.Context, code string) ([]byte, error)
}

// SlackError is returned when Slack answers the exchange with "ok": false.
type SlackError struct {
	Code string
}

func (e *SlackError) Error() string {
	return fmt.Sprintf("slack oauth exchange rejected: %s", e.Code)
}

// ClientConfig holds the app credentials used for the exchange.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AccessURL    string
}

// HTTPExchanger posts to the oauth.access endpoint.
type HTTPExchanger struct {
	config ClientConfig
	client *http.Client
}

// NewHTTPExchanger creates an exchanger. A nil client gets a 10s timeout client.
func NewHTTPExchanger(cfg ClientConfig, client *http.Client) *HTTPExchanger {
	if cfg.AccessURL == "" {
		cfg.AccessURL = DefaultAccessURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPExchanger{config: cfg, client: client}
}

// Exchange returns the undecoded response body so key presence can be checked by Parse.
func (e *HTTPExchanger) Exchange(ctx context.Context, code string) ([]byte, error) {
	form := url.Values{
		"client_id":     {e.config.ClientID},
		"client_secret": {e.config.ClientSecret},
		"code":          {code},
	}
	if e.config.RedirectURI != "" {
		form.Set("redirect_uri", e.config.RedirectURI)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.AccessURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build oauth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read oauth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth request: unexpected status %d", resp.StatusCode)
	}

	if ok := gjson.GetBytes(body, "ok"); ok.Exists() && !ok.Bool() {
		return nil, &SlackError{Code: gjson.GetBytes(body, "error").String()}
	}

	return body, nil
}
