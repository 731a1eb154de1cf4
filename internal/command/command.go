// Package command parses form-encoded Slack slash command payloads into a
// validated Command.
//
// Parsing distinguishes two failure kinds:
//
//   - *ValidationError: the token is missing or wrong, or the command text is
//     empty. Callers reply to the user with the message.
//   - *LookupError: one of user_id, user_name, channel_name or channel_id is
//     absent. Callers treat this as an internal error.
package command

import (
	"crypto/subtle"
	"log/slog"
	"net/url"
)

// Form keys read from a slash command payload.
const (
	KeyToken       = "token"
	KeyText        = "text"
	KeyUserID      = "user_id"
	KeyUserName    = "user_name"
	KeyChannelName = "channel_name"
	KeyChannelID   = "channel_id"
)

// Command is a validated slash command invocation.
type Command struct {
	text        string
	userID      string
	userName    string
	channelName string
	channelID   string
}

func (c *Command) Text() string        { return c.text }
func (c *Command) UserID() string      { return c.userID }
func (c *Command) UserName() string    { return c.userName }
func (c *Command) ChannelName() string { return c.channelName }
func (c *Command) ChannelID() string   { return c.channelID }

// Parser validates slash command payloads against an expected verification token.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Parser that logs rejections at debug level.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse validates fields and builds a Command. Checks run in order and the
// first failure wins: token present, token matches, text non-empty.
func (p *Parser) Parse(fields url.Values, expectedToken string) (*Command, error) {
	tokens, ok := fields[KeyToken]
	if !ok {
		return nil, p.reject(newValidationError("Access denied", "Token is missing"))
	}

	if !tokenMatches(first(tokens), expectedToken) {
		return nil, p.reject(newValidationError("Access denied", "Invalid token"))
	}

	if first(fields[KeyText]) == "" {
		return nil, p.reject(newValidationError("Bad Request", "Command is missing"))
	}

	cmd := &Command{text: first(fields[KeyText])}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyUserID, &cmd.userID},
		{KeyUserName, &cmd.userName},
		{KeyChannelName, &cmd.channelName},
		{KeyChannelID, &cmd.channelID},
	} {
		values, ok := fields[f.key]
		if !ok {
			return nil, &LookupError{Key: f.key}
		}
		*f.dst = first(values)
	}

	return cmd, nil
}

func (p *Parser) reject(err *ValidationError) error {
	if p != nil && p.logger != nil {
		p.logger.Debug("slash command rejected", "reason", err.Message)
	}
	return err
}

// tokenMatches compares in constant time. An unset expected token never matches.
func tokenMatches(got, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
