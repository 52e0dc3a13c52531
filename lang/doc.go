// Package lang translates breakpoint expressions into CSS media-query
// clauses.
//
// An expression is either the name of a predefined clause, or a comparison
// of a media feature against a named breakpoint or a literal length:
//
//	>=tablet            (min-width: 768px)
//	<850px              (max-width: 849px)
//	height>phone        (min-height: 321px)
//	retina2x            (-webkit-min-device-pixel-ratio: 2), ...
//
// # Grammar
//
// Informal EBNF:
//
//	Condition  → Name | Dimension? Operator Value
//	Operator   → '>=' | '>' | '<=' | '<' | '≥' | '≤'
//	Value      → Breakpoint | Sign? Digits ('.' Digits)? Unit?
//	Unit       → 'px' | 'cm' | 'mm' | '%' | 'ch' | 'pc' | 'in' | 'em'
//	           | 'rem' | 'pt' | 'ex' | 'vw' | 'vh' | 'vmin' | 'vmax'
//
// The dimension defaults to width. Operators '<', '<=' and '≤' produce a
// max- prefix, the others min-. The strict operators '>' and '<' move the
// bound by the interval of its unit (1px, 0.01em, 0.1rem, 0 for unit-less
// numbers) so adjacent ranges do not overlap.
//
// # Scopes
//
// A [Scope] bundles the breakpoint, expression and interval tables. Scopes
// are immutable. [Scope.Tweak] and [WithTweak] derive a scope with extra or
// replaced entries for a nested block, leaving the parent untouched.
//
// # Static mode
//
// A scope without media support answers [Scope.Intercepts] instead of
// emitting queries: it reports whether a fixed fallback breakpoint would
// satisfy the conditions, so that a stylesheet for clients without media
// queries includes only the matching rules. The comparison used for each
// prefix is an expr-lang predicate over fallback and bound.
//
// # Errors
//
// Every failure is returned as an [*Error] derived from one of the package
// sentinels, such as [ErrGrammar] or [ErrUnit], and carries structured
// attributes for logging.
package lang
