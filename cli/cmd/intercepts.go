package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// Intercepts prints whether the conditions hold without media query support.
type Intercepts struct {
	Conditions []string `arg:"" help:"Breakpoint conditions evaluated against the fallback breakpoint" name:"condition" optional:""`
}

// Run executes the intercepts command.
func (i *Intercepts) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	settings := settingsFrom(ctx)

	scope, err := settings.Scope(ctx)
	if err != nil {
		return err
	}

	ok, err := scope.Intercepts(i.Conditions...)
	if settings.skip(ctx, err, slog.String("command", "intercepts")) {
		return nil
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(ctx), strconv.FormatBool(ok))

	return err
}
