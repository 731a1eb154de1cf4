// Package reply builds the JSON body returned to Slack for a slash command.
package reply

import (
	"log/slog"

	"github.com/slack-go/slack"
)

// Visibility controls who sees a reply: only the invoking user, or the whole channel.
type Visibility string

const (
	Ephemeral Visibility = slack.ResponseTypeEphemeral
	InChannel Visibility = slack.ResponseTypeInChannel
)

// Valid reports whether v is one of the two known response types.
func (v Visibility) Valid() bool {
	return v == Ephemeral || v == InChannel
}

// NewVisibility converts a raw response type into a Visibility.
// An empty value is the default and maps to Ephemeral quietly. Unknown
// values are coerced to Ephemeral with a warning; this never fails.
func NewVisibility(raw string, logger *slog.Logger) Visibility {
	v := Visibility(raw)
	if v.Valid() {
		return v
	}
	if raw == "" {
		return Ephemeral
	}
	if logger != nil {
		logger.Warn("unknown response type, falling back to ephemeral",
			"response_type", raw,
		)
	}
	return Ephemeral
}

// Message is the wire shape of a slash command reply.
type Message struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// Builder produces Messages. The zero value is usable and logs nothing.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder returns a Builder that reports visibility fallbacks to logger.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build returns the reply for text shown with visibility v.
func (b *Builder) Build(text string, v Visibility) Message {
	var logger *slog.Logger
	if b != nil {
		logger = b.logger
	}
	return Message{
		ResponseType: string(NewVisibility(string(v), logger)),
		Text:         text,
	}
}
