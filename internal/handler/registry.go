package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mattjoyce/slashgate/internal/command"
	"github.com/mattjoyce/slashgate/internal/reply"
)

//go:generate mockgen -destination=mocks/mock_dispatcher.go -package=mocks github.com/mattjoyce/slashgate/internal/handler Dispatcher

// Canned is a fixed reply for one command text.
type Canned struct {
	Reply      string
	Visibility string
}

// Registry answers commands from a static table. Unknown commands get an
// "is invalid command" reply.
type Registry struct {
	entries map[string]Result
}

// NewRegistry builds a Registry. Visibilities are normalised up front, so an
// unknown visibility is logged once at startup rather than per request.
func NewRegistry(entries map[string]Canned, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{entries: make(map[string]Result, len(entries))}
	for text, c := range entries {
		r.entries[strings.TrimSpace(text)] = Result{
			Text:       c.Reply,
			Visibility: reply.NewVisibility(c.Visibility, logger.With("command", text)),
		}
	}
	return r
}

// Dispatch looks up the trimmed command text.
func (r *Registry) Dispatch(_ context.Context, cmd *command.Command) (Result, error) {
	if cmd == nil || cmd.Text() == "" {
		return Result{Text: MissingCommandText, Visibility: reply.Ephemeral}, nil
	}
	text := strings.TrimSpace(cmd.Text())
	if res, ok := r.entries[text]; ok {
		return res, nil
	}
	return Result{
		Text:       fmt.Sprintf("%s is invalid command", text),
		Visibility: reply.Ephemeral,
	}, nil
}

// Len returns the number of known commands.
func (r *Registry) Len() int {
	return len(r.entries)
}
