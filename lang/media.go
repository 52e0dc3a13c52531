package lang

import (
	"io"
)

// DefaultIndent is the number of spaces per nesting level used by
// [Scope.Media].
const DefaultIndent = 2

// Media writes body guarded by conds.
//
// With media support the body is wrapped in nested @media blocks. Without
// it the body is written unguarded when [Scope.Intercepts] accepts conds and
// dropped otherwise. Nothing is written when an error is returned.
func (s *Scope) Media(w io.Writer, body string, conds ...string) error {
	if s.media {
		q, err := s.Combine(conds...)
		if err != nil {
			return err
		}

		return q.Render(w, body, DefaultIndent)
	}

	ok, err := s.Intercepts(conds...)
	if err != nil || !ok {
		return err
	}

	return Query(nil).Render(w, body, DefaultIndent)
}
