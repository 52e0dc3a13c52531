package cmd

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/incmedia/lang"
	"github.com/ardnew/incmedia/log"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init writes a configuration file holding the default tables and the
// current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := kongVar(ctx, ConfigIdentifier)
	if confPath == "" {
		panic("internal error: config file path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	c := lang.DefaultConfig()
	c.Flags = i.flags(ctx)

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = c.WriteYAML(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("flags", len(c.Flags)),
	)

	return nil
}

// ignoreFlags lists prefixes of flags never written to the config section.
var ignoreFlags = []string{"help", "version", "pprof", "tables"}

// flags returns the set global flag values keyed by flag name.
func (i *Init) flags(ctx context.Context) map[string]any {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	flags := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoreFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx, flag); val != nil {
			flags[flag.Name] = val
		}
	}

	if len(flags) == 0 {
		return nil
	}

	return flags
}

// flagValue returns the YAML value of a flag, or nil if it is unset or
// empty.
func flagValue(ktx *kong.Context, flag *kong.Flag) any {
	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case bool, int, int64, uint, uint64, float64:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return slices.Clone(v)

	case map[string]string:
		if len(v) == 0 {
			return nil
		}

		return maps.Clone(v)

	case map[string]float64:
		if len(v) == 0 {
			return nil
		}

		return maps.Clone(v)
	}

	// Remaining kinds are named string types such as the log level.
	if rv := reflect.ValueOf(val); rv.Kind() == reflect.String {
		if rv.Len() == 0 {
			return nil
		}

		return rv.String()
	}

	return nil
}
