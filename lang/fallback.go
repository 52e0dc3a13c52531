package lang

import (
	"log/slog"
	"slices"
)

// Intercepts reports whether the fallback breakpoint satisfies every
// condition, answering the question a static (media-less) stylesheet asks.
//
// An expression passes only when it is one of the static expressions. A
// comparison passes when the predicate for its prefix accepts the fallback
// value against the adjusted bound, both in px when their absolute units
// differ. Relative units other than the fallback's fail with [ErrUnit].
// The first failing condition decides.
func (s *Scope) Intercepts(conds ...string) (bool, error) {
	fallback, ok := s.breakpoints[s.fallback]
	if !ok {
		return false, ErrUnknownBreakpoint.With(
			slog.String("breakpoint", s.fallback),
			slog.String("issue", "fallback breakpoint is not defined"),
		)
	}

	for _, cond := range conds {
		pass, err := s.intercepts(fallback, cond)
		if err != nil {
			return false, err
		}

		if !pass {
			s.logger.Trace("intercept rejected",
				slog.String("condition", cond),
				slog.String("fallback", s.fallback))

			return false, nil
		}
	}

	return true, nil
}

func (s *Scope) intercepts(fallback Number, cond string) (bool, error) {
	if _, ok := s.expressions[cond]; ok {
		return slices.Contains(s.static, cond), nil
	}

	tok, err := Tokenize(cond)
	if err != nil {
		return false, err
	}

	bound, err := s.bound(tok)
	if err != nil {
		return false, err
	}

	prefix := tok.Operator.Prefix()

	p, ok := s.predicates[prefix]
	if !ok {
		return false, ErrPredicate.With(
			slog.String("prefix", prefix),
			slog.String("issue", "no predicate defined"),
		)
	}

	fv, bv, err := commensurate(fallback, bound)
	if err != nil {
		return false, WrapError(err).With(
			slog.String("condition", cond),
			slog.String("fallback", s.fallback),
		)
	}

	return p.eval(fv, bv)
}
