package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Operator is a comparison operator in a breakpoint expression.
type Operator int

// Comparison operators, in the order the lexer tries them.
const (
	OpGreaterEqual    Operator = iota // >=
	OpGreater                         // >
	OpLessEqual                       // <=
	OpLess                            // <
	OpGreaterEqualAlt                 // ≥
	OpLessEqualAlt                    // ≤
)

// operators is the lexer's match order. Two-character operators precede
// their one-character prefixes.
var operators = [...]Operator{
	OpGreaterEqual,
	OpGreater,
	OpLessEqual,
	OpLess,
	OpGreaterEqualAlt,
	OpLessEqualAlt,
}

// Operators returns the comparison operators in match order.
func Operators() []Operator { return operators[:] }

func (o Operator) String() string {
	switch o {
	case OpGreaterEqual:
		return ">="
	case OpGreater:
		return ">"
	case OpLessEqual:
		return "<="
	case OpLess:
		return "<"
	case OpGreaterEqualAlt:
		return "≥"
	case OpLessEqualAlt:
		return "≤"
	default:
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}
}

// Prefix returns the media feature prefix selected by o.
func (o Operator) Prefix() string {
	switch o {
	case OpLess, OpLessEqual, OpLessEqualAlt:
		return "max"
	default:
		return "min"
	}
}

// Exclusive reports whether the bound must be nudged by one interval.
//
// Only the ASCII strict operators are exclusive. The Unicode operators are
// inclusive, like >= and <=.
func (o Operator) Exclusive() bool {
	return o == OpGreater || o == OpLess
}

// adjust returns the signed interval multiplier applied to the bound.
func (o Operator) adjust() float64 {
	switch o {
	case OpGreater:
		return 1
	case OpLess:
		return -1
	default:
		return 0
	}
}

// Token is a breakpoint expression split around its operator.
type Token struct {
	Dimension string
	Value     string
	Operator  Operator
}

// DefaultDimension is used when an expression names no dimension.
const DefaultDimension = "width"

// Tokenize splits cond into dimension, operator and raw value.
//
// The input is scanned from the left. At each offset the operators are tried
// in [Operators] order and the first match wins. A missing dimension becomes
// [DefaultDimension].
func Tokenize(cond string) (Token, error) {
	op, at, ok := lexOperator(cond)
	if !ok {
		return Token{}, ErrGrammar.With(slog.String("expression", cond))
	}

	tok := Token{
		Dimension: cond[:at],
		Operator:  op,
		Value:     cond[at+len(op.String()):],
	}

	if tok.Dimension == "" {
		tok.Dimension = DefaultDimension
	}

	return tok, nil
}

// lexOperator finds the first operator in s and its byte offset.
func lexOperator(s string) (Operator, int, bool) {
	for i := range len(s) {
		for _, op := range operators {
			if strings.HasPrefix(s[i:], op.String()) {
				return op, i, true
			}
		}
	}

	return 0, 0, false
}
