package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
	"go.uber.org/multierr"
)

// Config is the serialized form of a [Scope].
//
// Unset fields leave the corresponding setting of the base configuration in
// place when configs are merged. The Flags section is not interpreted here;
// it carries command-line defaults for the incmedia command.
type Config struct {
	Breakpoints       map[string]any     `json:"breakpoints,omitempty"        yaml:"breakpoints,omitempty"`
	Expressions       map[string]string  `json:"expressions,omitempty"        yaml:"expressions,omitempty"`
	Intervals         map[string]float64 `json:"intervals,omitempty"          yaml:"intervals,omitempty"`
	MediaSupport      *bool              `json:"media-support,omitempty"      yaml:"media-support,omitempty"`
	Predicates        map[string]string  `json:"predicates,omitempty"         yaml:"predicates,omitempty"`
	Flags             map[string]any     `json:"config,omitempty"             yaml:"config,omitempty"`
	Fallback          string             `json:"fallback,omitempty"           yaml:"fallback,omitempty"`
	StaticExpressions []string           `json:"static-expressions,omitempty" yaml:"static-expressions,omitempty"`
}

// DefaultConfig returns the configuration of [DefaultScope].
func DefaultConfig() *Config {
	return ConfigOf(DefaultScope())
}

// ConfigOf returns the configuration that reproduces s.
func ConfigOf(s *Scope) *Config {
	media := s.media

	c := &Config{
		Breakpoints:       make(map[string]any, len(s.breakpoints)),
		Expressions:       maps.Clone(s.expressions),
		Intervals:         maps.Clone(s.intervals),
		MediaSupport:      &media,
		Fallback:          s.fallback,
		StaticExpressions: slices.Clone(s.static),
		Predicates:        s.Predicates(),
	}

	for name, n := range s.breakpoints {
		c.Breakpoints[name] = n.String()
	}

	return c
}

// LoadConfig decodes a YAML configuration from r.
// Unknown top-level keys are rejected.
func LoadConfig(ctx context.Context, r io.Reader) (*Config, error) {
	// Read ahead asynchronously; table files may sit on slow mounts.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	c := new(Config)

	if err := yaml.UnmarshalContext(ctx, data, c, yaml.Strict()); err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	return c, nil
}

// LoadConfigFile decodes the YAML configuration stored at path.
func LoadConfigFile(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	c, err := LoadConfig(ctx, f)
	if err != nil {
		return nil, WrapError(err).With(slog.String("path", path))
	}

	return c, nil
}

// Merge returns a configuration with each of others overlaid on c in order.
// Map entries are merged by key; set scalars and lists replace.
// Neither c nor others are modified.
func (c *Config) Merge(others ...*Config) *Config {
	out := c.clone()

	for _, o := range others {
		if o == nil {
			continue
		}

		out.Breakpoints = overlay(out.Breakpoints, o.Breakpoints)
		out.Expressions = overlay(out.Expressions, o.Expressions)
		out.Intervals = overlay(out.Intervals, o.Intervals)
		out.Predicates = overlay(out.Predicates, o.Predicates)
		out.Flags = overlay(out.Flags, o.Flags)

		if o.MediaSupport != nil {
			media := *o.MediaSupport
			out.MediaSupport = &media
		}

		if o.Fallback != "" {
			out.Fallback = o.Fallback
		}

		if o.StaticExpressions != nil {
			out.StaticExpressions = slices.Clone(o.StaticExpressions)
		}
	}

	return out
}

func (c *Config) clone() *Config {
	if c == nil {
		return new(Config)
	}

	out := &Config{
		Breakpoints:       maps.Clone(c.Breakpoints),
		Expressions:       maps.Clone(c.Expressions),
		Intervals:         maps.Clone(c.Intervals),
		Predicates:        maps.Clone(c.Predicates),
		Flags:             maps.Clone(c.Flags),
		Fallback:          c.Fallback,
		StaticExpressions: slices.Clone(c.StaticExpressions),
	}

	if c.MediaSupport != nil {
		media := *c.MediaSupport
		out.MediaSupport = &media
	}

	return out
}

func overlay[T any](base, over map[string]T) map[string]T {
	if len(over) == 0 {
		return base
	}

	if base == nil {
		base = make(map[string]T, len(over))
	}

	maps.Copy(base, over)

	return base
}

// Scope validates c and builds a [Scope] from it.
//
// Settings absent from c keep their defaults. Tables present in c replace
// the default tables entirely. Every invalid entry is reported in the
// returned error, not only the first.
func (c *Config) Scope(opts ...Option) (*Scope, error) {
	var (
		err  error
		with []Option
	)

	if c.Breakpoints != nil {
		bps := make(map[string]Number, len(c.Breakpoints))

		for _, name := range sortedKeys(c.Breakpoints) {
			n, perr := ParseNumber(c.Breakpoints[name])
			if perr != nil {
				err = multierr.Append(err,
					WrapError(perr).With(slog.String("breakpoint", name)))

				continue
			}

			bps[name] = n
		}

		with = append(with, WithBreakpoints(bps))
	}

	if c.Expressions != nil {
		with = append(with, WithExpressions(c.Expressions))
	}

	if c.Intervals != nil {
		with = append(with, WithIntervals(c.Intervals))
	}

	if c.MediaSupport != nil {
		with = append(with, WithMediaSupport(*c.MediaSupport))
	}

	if c.Fallback != "" {
		with = append(with, WithFallback(c.Fallback))
	}

	if c.StaticExpressions != nil {
		with = append(with, WithStaticExpressions(c.StaticExpressions...))
	}

	for _, prefix := range sortedKeys(c.Predicates) {
		with = append(with, WithPredicate(prefix, c.Predicates[prefix]))
	}

	s, serr := NewScope(append(with, opts...)...)
	if err = multierr.Append(err, serr); err != nil {
		return nil, ErrConfig.Wrap(err).
			With(slog.Int("errors", len(multierr.Errors(err))))
	}

	return s, nil
}

// WriteYAML writes c as YAML. A zero indent selects flow style.
func (c *Config) WriteYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, c, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// WriteJSON writes c as JSON. A zero indent selects compact output.
func (c *Config) WriteJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(c, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(c)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
