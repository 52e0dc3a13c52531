package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/incmedia/cli/cmd"
	"github.com/ardnew/incmedia/lang"
	"github.com/ardnew/incmedia/log"
	"github.com/ardnew/incmedia/pkg"
)

// CLI is the top-level command-line interface for incmedia.
type CLI struct {
	Version kong.VersionFlag `short:"V" help:"Print version and exit"`

	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Scope scopeConfig `embed:"" group:"tables"`

	Init       cmd.Init       `cmd:"" help:"Write a configuration file with the default tables"`
	Tables     cmd.Tables     `cmd:"" help:"Print the effective tables"`
	Media      cmd.Media      `cmd:"" help:"Wrap a block in nested @media rules"`
	Intercepts cmd.Intercepts `cmd:"" help:"Evaluate conditions without media query support"`
	Repl       cmd.Repl       `cmd:"" help:"Start the interactive translator"`

	Compile cmd.Compile `cmd:"" default:"withargs" help:"Print the media query clause of each condition"`
}

// Run executes the incmedia CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(configFile)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Scope.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// runCtx is bound for command Run methods. It gains the kong context and
	// settings once parsing completes.
	runCtx := ctx

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Scope.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return runCtx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	files := cli.Scope.files(configFilePath)

	// Stuff additional context values for use by commands
	runCtx = cmd.WithContext(runCtx, ktx)
	runCtx = cmd.WithSettings(runCtx, &cmd.Settings{
		Tables: func(ctx context.Context) (*lang.Config, error) {
			return cli.Scope.load(ctx, files)
		},
		Logger:  log.Default(),
		Lenient: cli.Scope.Lenient,
	})

	// Execute the selected command
	return ktx.Run(&cli)
}
