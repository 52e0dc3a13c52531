// Package profile provides optional runtime profiling for the incmedia
// command.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag [Profiler.Start] is a no-op and [Modes]
// is empty.
//
// # Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// From the command line:
//
//	go build -tags pprof .
//	incmedia --pprof-mode cpu media -f site.css '>=tablet'
//
// Profiles are written to the directory given by --pprof-dir, by default
//
//	$XDG_CACHE_HOME/incmedia/pprof   (Linux/Unix)
//	~/Library/Caches/incmedia/pprof  (macOS)
//	%LocalAppData%\incmedia\pprof    (Windows)
//
// and are read with go tool pprof:
//
//	go tool pprof -http=: ./incmedia ~/.cache/incmedia/pprof/cpu.pprof
//
// The pprof build also registers the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
