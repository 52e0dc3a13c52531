package lang

import (
	"log/slog"
)

// Compile translates a single condition into a media-query clause.
//
// A condition naming an expression yields its literal clause unchanged.
// Otherwise the condition is tokenized, its value resolved against the
// breakpoint table (or parsed as a number), and exclusive operators nudge
// the bound by the unit's interval. The result has the form
//
//	(<prefix>-<dimension>: <value>)
func (s *Scope) Compile(cond string) (string, error) {
	if clause, ok := s.expressions[cond]; ok {
		s.logger.Trace("compile expression",
			slog.String("condition", cond),
			slog.String("clause", clause))

		return clause, nil
	}

	key := cacheKey(s.fingerprint, cond)

	if v, ok := clauseCache.Load(key); ok {
		if clause, ok := v.(string); ok {
			s.logger.Trace("compile cached",
				slog.String("condition", cond),
				slog.String("clause", clause))

			return clause, nil
		}
	}

	tok, err := Tokenize(cond)
	if err != nil {
		return "", err
	}

	bound, err := s.bound(tok)
	if err != nil {
		return "", err
	}

	clause := "(" + tok.Operator.Prefix() + "-" + tok.Dimension + ": " +
		bound.String() + ")"

	clauseCache.Store(key, clause)

	s.logger.Trace("compile comparison",
		slog.String("condition", cond),
		slog.String("dimension", tok.Dimension),
		slog.String("operator", tok.Operator.String()),
		slog.String("clause", clause))

	return clause, nil
}

// Interval returns the increment used for exclusive bounds in unit.
func (s *Scope) Interval(unit string) (float64, error) {
	v, ok := s.intervals[unit]
	if !ok {
		return 0, ErrUnit.With(
			slog.String("unit", unit),
			slog.String("issue", "no interval defined"),
		)
	}

	return v, nil
}

// value resolves the raw value of tok to a number.
func (s *Scope) value(tok Token) (Number, error) {
	if n, ok := s.breakpoints[tok.Value]; ok {
		return n, nil
	}

	n, err := ParseNumber(tok.Value)
	if err != nil {
		return Number{}, WrapError(err).With(slog.String("dimension", tok.Dimension))
	}

	return n, nil
}

// bound resolves tok to its value with the interval adjustment applied.
func (s *Scope) bound(tok Token) (Number, error) {
	n, err := s.value(tok)
	if err != nil {
		return Number{}, err
	}

	interval, err := s.Interval(n.Unit)
	if err != nil {
		return Number{}, err
	}

	return n.Add(tok.Operator.adjust() * interval), nil
}
