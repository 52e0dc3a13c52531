package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles for pretty printing. lipgloss drops the colors when the output
// does not support them.
var (
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	durationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

func levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return falseStyle.Bold(true)
	case level >= slog.LevelWarn:
		return numberStyle.Bold(true)
	case level >= slog.LevelInfo:
		return trueStyle
	default:
		return timeStyle
	}
}

// prettyHandler writes colorized records either as key=value pairs on one
// line or as an indented, unquoted JSON-like block.
type prettyHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	opts   slog.HandlerOptions
	prefix string      // dotted group prefix for record attributes
	attrs  []slog.Attr // flattened attributes added with WithAttrs
	block  bool
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return &prettyHandler{w: w, mu: &sync.Mutex{}, opts: *opts}
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return &prettyHandler{w: w, mu: &sync.Mutex{}, opts: *opts, block: true}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	builtin := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		builtin = append(builtin, slog.Time(slog.TimeKey, r.Time))
	}

	builtin = append(builtin, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin = append(builtin,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	builtin = append(builtin, slog.String(slog.MessageKey, r.Message))

	fields := make([]slog.Attr, 0, len(builtin)+len(h.attrs)+r.NumAttrs())

	for _, a := range builtin {
		if a = h.replace(a); !a.Equal(slog.Attr{}) {
			fields = append(fields, a)
		}
	}

	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.flatten(fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.block {
		buf.WriteString("{\n")
	}

	for i, a := range fields {
		val := h.value(a.Value)
		if a.Key == slog.LevelKey {
			val = levelStyle(r.Level).Render(a.Value.String())
		}

		switch {
		case h.block && i > 0:
			buf.WriteString(",\n  ")
		case h.block:
			buf.WriteString("  ")
		case i > 0:
			buf.WriteByte(' ')
		}

		buf.WriteString(keyStyle.Render(a.Key))

		if h.block {
			buf.WriteString(": ")
		} else {
			buf.WriteByte('=')
		}

		buf.WriteString(val)
	}

	if h.block {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		c.attrs = c.flatten(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// replace applies the configured ReplaceAttr to a built-in attribute.
func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

// flatten appends a to out with group members expanded to dotted keys.
func (h *prettyHandler) flatten(out []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return out
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, m := range a.Value.Group() {
			out = h.flatten(out, prefix, m)
		}

		return out
	}

	a.Key = prefix + a.Key

	return append(out, a)
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return numberStyle.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return durationStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().Format(time.RFC3339))

	case slog.KindAny:
		if v.Any() == nil {
			return keyStyle.Render("null")
		}

		return stringStyle.Render(v.String())

	default:
		return stringStyle.Render(v.String())
	}
}
