package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/incmedia/lang"
	"github.com/ardnew/incmedia/log"
)

// scopeConfig holds the global flags that shape the breakpoint tables.
// Flags are applied on top of every table file.
type scopeConfig struct {
	Tables           []string           `help:"Extra table file(s), merged in order after ${tablesEnv}." placeholder:"FILE"        type:"existingfile"`
	Breakpoint       map[string]string  `help:"Set a breakpoint."                                        placeholder:"NAME=VALUE"   short:"b"`
	Expression       map[string]string  `help:"Set a named media expression."                            placeholder:"NAME=LITERAL" short:"e"`
	Interval         map[string]float64 `help:"Set the interval added by exclusive operators."           placeholder:"UNIT=VALUE"`
	NoMediaSupport   bool               `help:"Evaluate conditions against the fallback breakpoint instead of emitting media queries."`
	Fallback         string             `help:"Breakpoint assumed without media query support."          placeholder:"NAME"`
	StaticExpression []string           `help:"Expression that passes without media query support."      placeholder:"NAME"`
	Lenient          bool               `help:"Log errors as warnings and skip the failing block."`
}

func (*scopeConfig) vars() kong.Vars {
	return kong.Vars{"tablesEnv": pathEnv()}
}

func (*scopeConfig) group() kong.Group {
	var group kong.Group

	group.Key = "tables"
	group.Title = "Table options"

	return group
}

// overrides returns the configuration formed by the flags that were given.
func (f *scopeConfig) overrides() *lang.Config {
	c := new(lang.Config)

	if len(f.Breakpoint) > 0 {
		c.Breakpoints = make(map[string]any, len(f.Breakpoint))
		for name, value := range f.Breakpoint {
			c.Breakpoints[name] = value
		}
	}

	if len(f.Expression) > 0 {
		c.Expressions = f.Expression
	}

	if len(f.Interval) > 0 {
		c.Intervals = f.Interval
	}

	if f.NoMediaSupport {
		media := false
		c.MediaSupport = &media
	}

	c.Fallback = f.Fallback

	if len(f.StaticExpression) > 0 {
		c.StaticExpressions = f.StaticExpression
	}

	return c
}

// files returns the table files to read in merge order: the user config
// file, the entries of the path environment variable, then --tables.
// A file reached through more than one path is read once, at its first
// position.
func (f *scopeConfig) files(config string) []string {
	paths := append(searchPath(config, os.Getenv(pathEnv())), f.Tables...)

	seen := make(map[string]struct{}, len(paths))
	files := make([]string, 0, len(paths))

	for _, path := range paths {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}

		if real, err := filepath.EvalSymlinks(key); err == nil {
			key = real
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		files = append(files, path)
	}

	return files
}

// load reads and merges files over the default tables, then applies the
// flag overrides.
func (f *scopeConfig) load(ctx context.Context, files []string) (*lang.Config, error) {
	configs := make([]*lang.Config, 0, len(files)+1)

	for _, path := range files {
		c, err := lang.LoadConfigFile(ctx, path)
		if err != nil {
			return nil, err
		}

		log.DebugContext(ctx, "tables loaded", slog.String("file", path))

		configs = append(configs, c)
	}

	return lang.DefaultConfig().Merge(append(configs, f.overrides())...), nil
}
