package repl

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/incmedia/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "exprs", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits a completion word. Conditions
// are separated by whitespace, and a breakpoint name follows its comparison
// operator. Hyphens belong to words (e.g. retina2x, no-hover).
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '<', '>', '=', '≥', '≤':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte boundaries in input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// followsOperator reports whether the word starting at start is the
// right-hand side of a comparison, e.g. "tab" in ">=tab".
func followsOperator(input string, start int) bool {
	if start == 0 {
		return false
	}

	r, _ := utf8.DecodeLastRuneInString(input[:start])

	return r != ' ' && r != '\t'
}

// candidates returns the names a word may complete to. After an operator
// only breakpoints apply; a bare condition may name either kind.
func candidates(s *lang.Scope, afterOperator bool) []string {
	if afterOperator {
		return slices.Sorted(maps.Keys(s.Breakpoints()))
	}

	return s.Names()
}

// computeMatches calculates the fuzzy matches for the word at the cursor,
// ranked best-first, and returns them with the word boundaries. An empty word
// yields no matches except directly after an operator, where every
// breakpoint is offered.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var names []string

	switch {
	case m.mode == modeCtrl:
		if word == "" {
			return nil, wordStart, wordEnd
		}

		names = ctrlCommands

	case followsOperator(input, wordStart):
		names = candidates(m.scope, true)
		if word == "" {
			matches = make(fuzzy.Matches, len(names))
			for i, name := range names {
				matches[i] = fuzzy.Match{Str: name, Index: i}
			}

			return matches, wordStart, wordEnd
		}

	default:
		if word == "" {
			return nil, wordStart, wordEnd
		}

		names = candidates(m.scope, false)
	}

	return fuzzy.Find(word, names), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}

// listBreakpoints formats the breakpoints in ascending order of value,
// marking the fallback.
func listBreakpoints(s *lang.Scope) string {
	bps := s.Breakpoints()

	names := slices.SortedFunc(maps.Keys(bps), func(a, b string) int {
		return cmp.Or(
			cmp.Compare(bps[a].Value, bps[b].Value),
			strings.Compare(a, b),
		)
	})

	return table(names, func(name string) (string, string) {
		mark := ""
		if name == s.Fallback() {
			mark = "(fallback)"
		}

		return bps[name].String(), mark
	})
}

// listExpressions formats the media expressions by name, marking those that
// pass in static mode.
func listExpressions(s *lang.Scope) string {
	exprs := s.Expressions()
	static := s.StaticExpressions()

	return table(slices.Sorted(maps.Keys(exprs)), func(name string) (string, string) {
		mark := ""
		if slices.Contains(static, name) {
			mark = "(static)"
		}

		return exprs[name], mark
	})
}

func table(names []string, row func(string) (string, string)) string {
	if len(names) == 0 {
		return hintStyle.Render("(none)")
	}

	var b strings.Builder

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, name := range names {
		value, mark := row(name)
		fmt.Fprintf(w, "  %s\t%s\t%s\n", name, value, mark)
	}

	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}
