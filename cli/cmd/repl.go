package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/incmedia/cli/cmd/repl"
)

// Repl starts the interactive translator.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	settings := settingsFrom(ctx)

	c, err := settings.Config(ctx)
	if err != nil {
		return err
	}

	logger := settings.Logger.With(slog.String("command", "repl"))

	return repl.Run(ctx, c, kongVar(ctx, CacheIdentifier), logger)
}
