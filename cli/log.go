package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/incmedia/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format (Go layout, constant name, or none)."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	var levels, formats []string

	for s := range log.Levels() {
		levels = append(levels, s)
	}

	for s := range log.Formats() {
		formats = append(formats, s)
	}

	return kong.Vars{
		"logLevelEnum":  strings.Join(levels, ","),
		"logFormatEnum": strings.Join(formats, ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies the parsed logger configuration, including the options that
// do not pass through a TextUnmarshaler.
func (f *logConfig) start(ctx context.Context) func() {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {}
}

// logFlag applies one logger flag found by scan.
type logFlag struct {
	boolean bool
	apply   func(f *logConfig, value string)
}

// logFlags maps the long name of each logger flag, without the "--log-"
// prefix, to its scan handler.
var logFlags = map[string]logFlag{
	"level": {apply: func(f *logConfig, v string) {
		_ = f.Level.UnmarshalText([]byte(v))
	}},
	"format": {apply: func(f *logConfig, v string) {
		_ = f.Format.UnmarshalText([]byte(v))
	}},
	"time-layout": {apply: func(f *logConfig, v string) {
		f.TimeLayout = v
		log.Config(log.WithTimeLayout(v))
	}},
	"pretty": {boolean: true, apply: func(f *logConfig, v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Pretty = b
			log.Config(log.WithPretty(b))
		}
	}},
	"caller": {boolean: true, apply: func(f *logConfig, v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Caller = b
			log.Config(log.WithCaller(b))
		}
	}},
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line.
//
// Boolean flags accept "--log-NAME", "--log-NAME=BOOL" and the negated
// "--no-log-NAME". Other flags accept "--log-NAME=VALUE" or "--log-NAME VALUE".
// Scanning stops at "--".
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		negated := false

		name, ok := strings.CutPrefix(arg, "--log-")
		if !ok {
			if name, ok = strings.CutPrefix(arg, "--no-log-"); !ok {
				continue
			}

			negated = true
		}

		name, value, assigned := strings.Cut(name, "=")

		flag, ok := logFlags[name]
		if !ok || (negated && !flag.boolean) {
			continue
		}

		switch {
		case flag.boolean && !assigned:
			value = strconv.FormatBool(!negated)

		case flag.boolean && negated:
			if b, err := strconv.ParseBool(value); err == nil {
				value = strconv.FormatBool(!b)
			}

		case !assigned:
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				continue
			}

			i++
			value = args[i]
		}

		flag.apply(f, value)
	}
}
