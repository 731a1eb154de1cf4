// Package handler turns a raw slash command request body into a Slack reply.
//
// The flow is linear: decode the form body, validate it into a Command,
// dispatch the Command, and wrap the result with the reply builder.
// Validation failures come back as an in-band ephemeral reply with a nil
// error. A *command.LookupError or a dispatcher failure is returned to the
// caller, which should treat it as an internal error.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/mattjoyce/slashgate/internal/command"
	"github.com/mattjoyce/slashgate/internal/reply"
)

// DefaultTokenEnv is the environment variable holding the verification token.
const DefaultTokenEnv = "SLACK_VERIFICATION_TOKEN"

// MissingCommandText is the reply when a dispatched command has no text.
const MissingCommandText = "command is missing"

// Event is an inbound slash command request.
type Event struct {
	Body string
}

// TokenSource yields the expected verification token. It is consulted on
// every invocation.
type TokenSource func() string

// EnvToken reads the token from the named environment variable at call time.
func EnvToken(name string) TokenSource {
	return func() string { return os.Getenv(name) }
}

// StaticToken always returns token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// Result is a dispatcher's answer to a command.
type Result struct {
	Text       string
	Visibility reply.Visibility
}

// Dispatcher runs the business logic behind a validated command.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd *command.Command) (Result, error)
}

// Outcome classifies how an invocation ended, for metrics.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeRejected Outcome = "rejected"
	OutcomeError    Outcome = "error"
)

// Observer is notified once per invocation.
type Observer interface {
	ObserveCommand(outcome Outcome)
}

// Handler orchestrates parsing, dispatch and reply building.
type Handler struct {
	parser     *command.Parser
	builder    *reply.Builder
	dispatcher Dispatcher
	token      TokenSource
	observer   Observer
	logger     *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithObserver reports invocation outcomes to o.
func WithObserver(o Observer) Option {
	return func(h *Handler) { h.observer = o }
}

// New creates a Handler. A nil token source reads DefaultTokenEnv.
func New(dispatcher Dispatcher, token TokenSource, logger *slog.Logger, opts ...Option) *Handler {
	if token == nil {
		token = EnvToken(DefaultTokenEnv)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		parser:     command.NewParser(logger),
		builder:    reply.NewBuilder(logger),
		dispatcher: dispatcher,
		token:      token,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes one slash command request.
func (h *Handler) Handle(ctx context.Context, ev Event) (reply.Message, error) {
	// A malformed body yields whatever pairs decoded; missing keys are caught by Parse.
	fields, err := url.ParseQuery(ev.Body)
	if err != nil {
		h.logger.Debug("slash command body partially decoded", "error", err)
	}

	cmd, err := h.parser.Parse(fields, h.token())
	if err != nil {
		var verr *command.ValidationError
		if errors.As(err, &verr) {
			h.observe(OutcomeRejected)
			return h.builder.Build(verr.Message, reply.Ephemeral), nil
		}
		h.observe(OutcomeError)
		return reply.Message{}, err
	}

	if cmd == nil || cmd.Text() == "" {
		h.observe(OutcomeOK)
		return h.builder.Build(MissingCommandText, reply.Ephemeral), nil
	}

	h.logger.Debug("slash command accepted",
		"user_id", cmd.UserID(),
		"channel_id", cmd.ChannelID(),
	)

	res, err := h.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		h.observe(OutcomeError)
		return reply.Message{}, fmt.Errorf("dispatch command: %w", err)
	}

	h.observe(OutcomeOK)
	return h.builder.Build(res.Text, res.Visibility), nil
}

func (h *Handler) observe(o Outcome) {
	if h.observer != nil {
		h.observer.ObserveCommand(o)
	}
}
