// Package oauth maps Slack's OAuth token-exchange response into an Installation
// and performs the code-for-token exchange.
package oauth

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/mattjoyce/slashgate/internal/payload"
)

// ErrInvalidJSON is returned when the exchange response is not a JSON object.
var ErrInvalidJSON = errors.New("oauth response is not a JSON object")

// Installation is the result of a workspace installing the app with an
// incoming webhook.
type Installation struct {
	AccessToken        string
	UserID             string
	IncomingWebhookURL string
	ChannelID          string
	ChannelName        string
	ConfigurationURL   string
	TeamID             string
	TeamName           string
}

// Parse projects the required keys of an oauth.access response body. Every key
// is required; the first absent one is reported as a *payload.LookupError
// carrying its dotted path.
func Parse(body []byte) (*Installation, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, ErrInvalidJSON
	}

	var inst Installation
	fields := []struct {
		path string
		dst  *string
	}{
		{"access_token", &inst.AccessToken},
		{"user_id", &inst.UserID},
		{"incoming_webhook", nil},
		{"incoming_webhook.url", &inst.IncomingWebhookURL},
		{"incoming_webhook.channel_id", &inst.ChannelID},
		{"incoming_webhook.channel", &inst.ChannelName},
		{"incoming_webhook.configuration_url", &inst.ConfigurationURL},
		{"team_id", &inst.TeamID},
		{"team_name", &inst.TeamName},
	}
	for _, f := range fields {
		v := doc.Get(f.path)
		if !v.Exists() {
			return nil, &payload.LookupError{Key: f.path}
		}
		if f.dst == nil {
			if !v.IsObject() {
				return nil, fmt.Errorf("%s: expected object", f.path)
			}
			continue
		}
		*f.dst = v.String()
	}

	return &inst, nil
}
