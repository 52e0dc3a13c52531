package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/incmedia/lang"
)

// Tables prints the effective tables after merging every table file and
// flag override.
type Tables struct {
	Format string `arg:"" default:"yaml" enum:"yaml,json" help:"Output format (${enum})" optional:""`
	Indent int    `       default:"2"                    help:"Indentation width, or 0 for compact output"`
}

// Run executes the tables command.
func (t *Tables) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	scope, err := settingsFrom(ctx).Scope(ctx)
	if err != nil {
		return err
	}

	c := lang.ConfigOf(scope)
	w := stdout(ctx)

	switch t.Format {
	case "json":
		err = c.WriteJSON(ctx, w, t.Indent)

	default:
		err = c.WriteYAML(ctx, w, t.Indent)
	}

	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", t.Format))
	}

	return nil
}
