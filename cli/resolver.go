package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/incmedia/lang"
	"github.com/ardnew/incmedia/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults from
// the config section of a table file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Example table file:
//
//	breakpoints:
//	  tablet: 800px
//	config:
//	  log-level: debug
//	  log_format: json
//	  fallback: tablet
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--fallback=tablet
//
// Flag names may be spelled with hyphens or underscores. Command-line flags
// override config file values. A file that fails to decode is reported at
// warn level and contributes no defaults.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		c, err := lang.LoadConfig(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring flag defaults",
				slog.Any("error", err))

			return config{}, nil
		}

		return makeConfig(c.Flags), nil
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// makeConfig normalizes decoded YAML values into forms Kong can decode.
// Numbers become strings, sequence items become strings, and mappings
// become ";"-separated "key=value" lists.
func makeConfig(flags map[string]any) config {
	c := make(config, len(flags))

	for name, value := range flags {
		c[name] = flagValue(value)
	}

	return c
}

func flagValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(flagValue(item))
		}

		return items

	case map[string]any:
		items := make([]string, 0, len(v))
		for _, key := range slices.Sorted(maps.Keys(v)) {
			items = append(items, key+"="+fmt.Sprint(flagValue(v[key])))
		}

		return strings.Join(items, ";")

	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but table files
	// may use underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
