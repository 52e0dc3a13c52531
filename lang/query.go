package lang

import (
	"io"
	"strings"
)

// Query is an ordered list of compiled clauses.
// Rendering nests one @media block per clause, first clause outermost.
type Query []string

// Combine compiles each condition in order into a [Query].
// The first failing condition aborts the combination.
func (s *Scope) Combine(conds ...string) (Query, error) {
	q := make(Query, 0, len(conds))

	for _, cond := range conds {
		clause, err := s.Compile(cond)
		if err != nil {
			return nil, err
		}

		q = append(q, clause)
	}

	return q, nil
}

// String returns the nested @media blocks of q on one line with an empty
// body, e.g. "@media a { @media b { } }".
func (q Query) String() string {
	var sb strings.Builder

	for _, clause := range q {
		sb.WriteString("@media ")
		sb.WriteString(clause)
		sb.WriteString(" { ")
	}

	sb.WriteString(strings.Repeat("} ", len(q)))

	return strings.TrimSpace(sb.String())
}

// Render writes body wrapped in the nested @media blocks of q.
//
// Each level of nesting indents by indent spaces. An empty query writes body
// without nesting. The output is written with a single call to w.
func (q Query) Render(w io.Writer, body string, indent int) error {
	var sb strings.Builder

	q.render(&sb, body, strings.Repeat(" ", indent), 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

func (q Query) render(sb *strings.Builder, body, unit string, depth int) {
	pad := strings.Repeat(unit, depth)

	if len(q) == 0 {
		writeBody(sb, body, pad)

		return
	}

	sb.WriteString(pad)
	sb.WriteString("@media ")
	sb.WriteString(q[0])
	sb.WriteString(" {\n")

	q[1:].render(sb, body, unit, depth+1)

	sb.WriteString(pad)
	sb.WriteString("}\n")
}

// writeBody writes each line of body prefixed with pad.
// Blank lines are kept without padding.
func writeBody(sb *strings.Builder, body, pad string) {
	body = strings.TrimRight(body, "\n")
	if body == "" {
		return
	}

	for line := range strings.SplitSeq(body, "\n") {
		if strings.TrimSpace(line) != "" {
			sb.WriteString(pad)
			sb.WriteString(line)
		}

		sb.WriteByte('\n')
	}
}
