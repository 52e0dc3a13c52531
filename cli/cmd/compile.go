package cmd

import (
	"context"
	"fmt"
	"log/slog"
)

// Compile prints the media query clause of each condition.
type Compile struct {
	Conditions []string `arg:"" help:"Breakpoint conditions, e.g. '>=tablet' or 'landscape'" name:"condition"`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	settings := settingsFrom(ctx)

	scope, err := settings.Scope(ctx)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, cond := range c.Conditions {
		clause, err := scope.Compile(cond)
		if settings.skip(ctx, err, slog.String("command", "compile"), slog.String("condition", cond)) {
			continue
		}

		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, clause); err != nil {
			return err
		}
	}

	return nil
}
