// Package cli contains the command line interface for incmedia.
//
// # Usage
//
//	incmedia [flags] <command>
//
// The default command is compile, so conditions may follow the flags
// directly:
//
//	incmedia '>=tablet' '<desktop'
//	(min-width: 768px)
//	(max-width: 1023px)
//
// # Tables
//
// Breakpoints, expressions, intervals and the settings used without media
// query support are read from YAML table files, merged in this order:
//
//  1. the defaults,
//  2. the user config file (config.yaml in the user config directory),
//  3. each regular file listed in INCMEDIA_PATH (a PATH-like list),
//  4. each --tables file,
//  5. the --breakpoint, --expression, --interval, --no-media-support,
//     --fallback and --static-expression flags.
//
// Maps merge by key; later files win. Use the tables command to print the
// result and init to write a starting config file.
//
// # Configuration Loader
//
// The config section of the user config file supplies flag defaults through
// a Kong configuration loader:
//
//	config:
//	  log-level: debug
//	  lenient: true
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o incmedia .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/incmedia/profile)
package cli
