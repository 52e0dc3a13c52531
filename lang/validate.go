package lang

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// validateExpression checks that the literal clause of the named expression
// can be placed in an @media prelude. It rejects block and statement
// delimiters, malformed strings or URLs and unbalanced parentheses.
func validateExpression(name, literal string) error {
	fail := func(issue string) error {
		return ErrExpression.With(
			slog.String("expression", name),
			slog.String("literal", literal),
			slog.String("issue", issue),
		)
	}

	if strings.TrimSpace(literal) == "" {
		return fail("empty clause")
	}

	lexer := css.NewLexer(parse.NewInput(strings.NewReader(literal)))

	depth := 0

	for {
		tt, _ := lexer.Next()

		switch tt {
		case css.ErrorToken:
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return ErrExpression.Wrap(err).With(slog.String("expression", name))
			}

			if depth != 0 {
				return fail("unbalanced parentheses")
			}

			return nil

		case css.LeftBraceToken, css.RightBraceToken:
			return fail("unexpected brace")

		case css.SemicolonToken:
			return fail("unexpected semicolon")

		case css.BadStringToken, css.BadURLToken:
			return fail("malformed string or url")

		case css.LeftParenthesisToken, css.FunctionToken:
			depth++

		case css.RightParenthesisToken:
			if depth--; depth < 0 {
				return fail("unbalanced parentheses")
			}
		}
	}
}
