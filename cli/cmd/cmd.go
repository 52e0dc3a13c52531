package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/incmedia/lang"
	"github.com/ardnew/incmedia/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or "" without a kong context.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

// stdout returns the writer receiving command output.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Settings carries the global options shared by all commands.
type Settings struct {
	// Tables returns the effective table configuration. It is called lazily
	// so commands that do not read tables never fail on a broken table file.
	Tables func(context.Context) (*lang.Config, error)

	// Logger receives engine traces and lenient warnings.
	Logger log.Logger

	// Lenient degrades engine errors to warnings that skip the failing block.
	Lenient bool
}

type settingsKey struct{}

// WithSettings returns a new context.Context containing s.
func WithSettings(ctx context.Context, s *Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// settingsFrom returns the settings stored in ctx. Without stored settings,
// commands see the default tables and the default logger.
func settingsFrom(ctx context.Context) *Settings {
	if s, ok := ctx.Value(settingsKey{}).(*Settings); ok && s != nil {
		return s
	}

	return &Settings{Logger: log.Default()}
}

// Config returns the effective table configuration.
func (s *Settings) Config(ctx context.Context) (*lang.Config, error) {
	if s.Tables == nil {
		return lang.DefaultConfig(), nil
	}

	return s.Tables(ctx)
}

// Scope builds the scope described by the effective tables.
func (s *Settings) Scope(ctx context.Context) (*lang.Scope, error) {
	c, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}

	return c.Scope(lang.WithLogger(s.Logger))
}

// skip reports whether err should be swallowed. In lenient mode an engine
// error is logged at warn level with attrs and skipped.
func (s *Settings) skip(ctx context.Context, err error, attrs ...slog.Attr) bool {
	var engine *lang.Error
	if !s.Lenient || !errors.As(err, &engine) {
		return false
	}

	s.Logger.WarnContext(ctx, "skipped", append(attrs, slog.Any("error", err))...)

	return true
}
