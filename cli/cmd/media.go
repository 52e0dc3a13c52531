package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/incmedia/lang"
)

// Media wraps a block body in the media queries of its conditions.
type Media struct {
	Conditions     []string          `arg:"" help:"Breakpoint conditions, outermost first"         name:"condition" optional:""`
	Source         []string          `       help:"Block body file(s) or '-' for stdin"            default:"-"      placeholder:"FILE" short:"f"`
	WithBreakpoint map[string]string `       help:"Set a breakpoint for this block only"                            placeholder:"NAME=VALUE"`
	WithExpression map[string]string `       help:"Set a media expression for this block only"                      placeholder:"NAME=LITERAL"`
}

// Run executes the media command.
func (m *Media) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	settings := settingsFrom(ctx)

	scope, err := settings.Scope(ctx)
	if err != nil {
		return err
	}

	body, err := readBody(ctx, os.Stdin, m.Source)
	if err != nil {
		return err
	}

	bps, err := m.breakpoints()
	if err != nil {
		return err
	}

	err = lang.WithTweak(ctx, scope, bps, m.WithExpression,
		func(_ context.Context, s *lang.Scope) error {
			return s.Media(stdout(ctx), body, m.Conditions...)
		})
	if settings.skip(ctx, err,
		slog.String("command", "media"),
		slog.Any("conditions", m.Conditions)) {
		return nil
	}

	return err
}

// breakpoints parses the --with-breakpoint values.
func (m *Media) breakpoints() (map[string]lang.Number, error) {
	if len(m.WithBreakpoint) == 0 {
		return nil, nil
	}

	bps := make(map[string]lang.Number, len(m.WithBreakpoint))

	for name, value := range m.WithBreakpoint {
		n, err := lang.ParseNumber(value)
		if err != nil {
			return nil, lang.WrapError(err).With(slog.String("breakpoint", name))
		}

		bps[name] = n
	}

	return bps, nil
}
