package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/multierr"

	"github.com/ardnew/incmedia/log"
)

// Scope is an immutable breakpoint vocabulary.
//
// It holds the breakpoint, expression and interval tables together with the
// static-mode settings. Derived scopes are created with [Scope.Tweak]; the
// receiver is never modified, so a Scope may be shared between goroutines.
type Scope struct {
	breakpoints map[string]Number
	expressions map[string]string
	intervals   map[string]float64
	predicates  map[string]*predicate
	fallback    string
	static      []string
	logger      log.Logger
	fingerprint uint64
	media       bool
}

// Option configures a [Scope] under construction.
type Option func(*Scope)

// WithBreakpoints replaces the breakpoint table.
func WithBreakpoints(bps map[string]Number) Option {
	return func(s *Scope) { s.breakpoints = maps.Clone(bps) }
}

// WithExpressions replaces the expression table.
func WithExpressions(exprs map[string]string) Option {
	return func(s *Scope) { s.expressions = maps.Clone(exprs) }
}

// WithIntervals replaces the interval table.
func WithIntervals(intervals map[string]float64) Option {
	return func(s *Scope) { s.intervals = maps.Clone(intervals) }
}

// WithMediaSupport sets whether media queries are emitted.
// When disabled the scope answers in static mode.
func WithMediaSupport(enable bool) Option {
	return func(s *Scope) { s.media = enable }
}

// WithFallback sets the breakpoint assumed in static mode.
func WithFallback(name string) Option {
	return func(s *Scope) { s.fallback = name }
}

// WithStaticExpressions sets the expressions that pass in static mode.
func WithStaticExpressions(names ...string) Option {
	return func(s *Scope) { s.static = slices.Clone(names) }
}

// WithPredicate sets the static-mode test for prefix ("min" or "max").
// The source is an expr-lang boolean expression over fallback and bound.
func WithPredicate(prefix, source string) Option {
	return func(s *Scope) {
		s.predicates = maps.Clone(s.predicates)
		s.predicates[prefix] = &predicate{source: source}
	}
}

// WithLogger sets the logger used to trace compilation.
func WithLogger(logger log.Logger) Option {
	return func(s *Scope) { s.logger = logger }
}

// NewScope returns a scope built from the default vocabulary and opts.
func NewScope(opts ...Option) (*Scope, error) {
	s := &Scope{
		breakpoints: maps.Clone(defaultBreakpoints),
		expressions: maps.Clone(defaultExpressions),
		intervals:   maps.Clone(defaultIntervals),
		media:       DefaultMediaSupport,
		fallback:    DefaultFallback,
		static:      slices.Clone(defaultStaticExpressions),
		predicates:  make(map[string]*predicate, len(defaultPredicates)),
	}

	for prefix, source := range defaultPredicates {
		s.predicates[prefix] = &predicate{source: source}
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	s.fingerprint = fingerprint(s)

	return s, nil
}

// DefaultScope returns the shared scope holding the default vocabulary.
var DefaultScope = sync.OnceValue(func() *Scope {
	s, err := NewScope()
	if err != nil {
		panic("internal error: invalid default scope: " + err.Error())
	}

	return s
})

func (s *Scope) validate() (err error) {
	for _, name := range sortedKeys(s.breakpoints) {
		err = multierr.Append(err, validateBreakpoint(name, s.breakpoints[name]))
	}

	for _, name := range sortedKeys(s.expressions) {
		err = multierr.Append(err, validateExpression(name, s.expressions[name]))
	}

	for _, prefix := range sortedKeys(s.predicates) {
		err = multierr.Append(err, s.predicates[prefix].compile(prefix))
	}

	return err
}

// validateBreakpoint requires a positive length.
func validateBreakpoint(name string, n Number) error {
	if _, err := ToLength(n.Value, n.Unit); err != nil {
		return WrapError(err).With(slog.String("breakpoint", name))
	}

	if !(n.Value > 0) {
		return ErrConfig.With(
			slog.String("breakpoint", name),
			slog.String("value", n.String()),
			slog.String("issue", "breakpoint must be positive"),
		)
	}

	return nil
}

// Breakpoint returns the value of the named breakpoint.
func (s *Scope) Breakpoint(name string) (Number, bool) {
	n, ok := s.breakpoints[name]

	return n, ok
}

// Expression returns the literal clause of the named expression.
func (s *Scope) Expression(name string) (string, bool) {
	e, ok := s.expressions[name]

	return e, ok
}

// Breakpoints returns a copy of the breakpoint table.
func (s *Scope) Breakpoints() map[string]Number { return maps.Clone(s.breakpoints) }

// Expressions returns a copy of the expression table.
func (s *Scope) Expressions() map[string]string { return maps.Clone(s.expressions) }

// Intervals returns a copy of the interval table.
func (s *Scope) Intervals() map[string]float64 { return maps.Clone(s.intervals) }

// MediaSupport reports whether s emits media queries.
func (s *Scope) MediaSupport() bool { return s.media }

// Fallback returns the breakpoint name assumed in static mode.
func (s *Scope) Fallback() string { return s.fallback }

// StaticExpressions returns the expressions that pass in static mode.
func (s *Scope) StaticExpressions() []string { return slices.Clone(s.static) }

// Predicates returns the source of each static-mode predicate by prefix.
func (s *Scope) Predicates() map[string]string {
	m := make(map[string]string, len(s.predicates))
	for prefix, p := range s.predicates {
		m[prefix] = p.source
	}

	return m
}

// Names returns every breakpoint and expression name, sorted.
func (s *Scope) Names() []string {
	names := append(sortedKeys(s.breakpoints), sortedKeys(s.expressions)...)
	slices.Sort(names)

	return slices.Compact(names)
}

// Tweak returns a scope whose tables are those of s overlaid with bps and
// exprs. Entries in the overlay win. The receiver is not modified.
func (s *Scope) Tweak(
	bps map[string]Number,
	exprs map[string]string,
) (*Scope, error) {
	t := *s
	t.breakpoints = maps.Clone(s.breakpoints)
	t.expressions = maps.Clone(s.expressions)

	var err error

	for _, name := range sortedKeys(bps) {
		err = multierr.Append(err, validateBreakpoint(name, bps[name]))
		t.breakpoints[name] = bps[name]
	}

	for _, name := range sortedKeys(exprs) {
		err = multierr.Append(err, validateExpression(name, exprs[name]))
		t.expressions[name] = exprs[name]
	}

	if err != nil {
		return nil, err
	}

	t.fingerprint = fingerprint(&t)

	s.logger.Trace("tweak scope",
		slog.Int("breakpoints", len(bps)),
		slog.Int("expressions", len(exprs)),
		slog.String("fingerprint", fingerprintString(t.fingerprint)))

	return &t, nil
}

type scopeKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the scope carried by ctx, or [DefaultScope].
func FromContext(ctx context.Context) *Scope {
	if s, ok := ctx.Value(scopeKey{}).(*Scope); ok && s != nil {
		return s
	}

	return DefaultScope()
}

// WithTweak runs body with s tweaked by bps and exprs.
//
// The derived scope is passed to body and carried by its context. The
// tweak is visible only inside body; s is unchanged on every return path.
func WithTweak(
	ctx context.Context,
	s *Scope,
	bps map[string]Number,
	exprs map[string]string,
	body func(context.Context, *Scope) error,
) error {
	t, err := s.Tweak(bps, exprs)
	if err != nil {
		return err
	}

	return body(NewContext(ctx, t), t)
}

// predicate is a compiled static-mode test.
type predicate struct {
	program *vm.Program
	source  string
}

// predicateEnv is the environment a predicate is evaluated in.
type predicateEnv struct {
	Fallback float64 `expr:"fallback"`
	Bound    float64 `expr:"bound"`
}

func (p *predicate) compile(prefix string) error {
	if prefix != "min" && prefix != "max" {
		return ErrPredicate.With(
			slog.String("prefix", prefix),
			slog.String("issue", "prefix must be min or max"),
		)
	}

	if p.program != nil {
		return nil
	}

	program, err := expr.Compile(p.source, expr.Env(predicateEnv{}), expr.AsBool())
	if err != nil {
		return ErrPredicate.Wrap(err).With(
			slog.String("prefix", prefix),
			slog.String("source", p.source),
		)
	}

	p.program = program

	return nil
}

func (p *predicate) eval(fallback, bound float64) (bool, error) {
	out, err := expr.Run(p.program, predicateEnv{Fallback: fallback, Bound: bound})
	if err != nil {
		return false, ErrPredicate.Wrap(err).With(slog.String("source", p.source))
	}

	ok, _ := out.(bool)

	return ok, nil
}
