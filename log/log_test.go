package log_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/ardnew/incmedia/lang"
	"github.com/ardnew/incmedia/log"
)

// records decodes each JSON log line in buf.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("invalid log line %q: %v", scanner.Text(), err)
		}

		out = append(out, rec)
	}

	return out
}

func jsonLogger(buf *bytes.Buffer, level log.Level) log.Logger {
	return log.Make(buf,
		log.WithLevel(level),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"))
}

func TestLogger_TracesCompile(t *testing.T) {
	lang.ClearCache()

	var buf bytes.Buffer

	s, err := lang.NewScope(
		lang.WithLogger(jsonLogger(&buf, log.LevelTrace)),
		lang.WithBreakpoints(map[string]lang.Number{"column": {Value: 37, Unit: "em"}}),
	)
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if _, err := s.Compile(">column"); err != nil {
			t.Fatalf("Compile: %v", err)
		}
	}

	recs := records(t, &buf)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(recs), recs)
	}

	want := []struct{ msg, clause string }{
		{"compile comparison", "(min-width: 37.01em)"},
		{"compile cached", "(min-width: 37.01em)"},
	}

	for i, w := range want {
		rec := recs[i]
		if rec[slog.LevelKey] != "TRACE" || rec[slog.MessageKey] != w.msg ||
			rec["condition"] != ">column" || rec["clause"] != w.clause {
			t.Errorf("record %d = %v, want TRACE %q", i, rec, w.msg)
		}

		if _, ok := rec[slog.TimeKey]; ok {
			t.Errorf("record %d has a timestamp with layout none", i)
		}
	}
}

func TestLogger_TracesTweak(t *testing.T) {
	var buf bytes.Buffer

	s, err := lang.NewScope(lang.WithLogger(jsonLogger(&buf, log.LevelTrace)))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Tweak(map[string]lang.Number{"tablet": {Value: 600, Unit: "px"}}, nil); err != nil {
		t.Fatal(err)
	}

	recs := records(t, &buf)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}

	if recs[0][slog.MessageKey] != "tweak scope" || recs[0]["breakpoints"] != float64(1) {
		t.Errorf("record = %v", recs[0])
	}

	if fp, _ := recs[0]["fingerprint"].(string); fp == "" {
		t.Errorf("record has no fingerprint: %v", recs[0])
	}
}

func TestLogger_QuietAboveTrace(t *testing.T) {
	var buf bytes.Buffer

	s, err := lang.NewScope(lang.WithLogger(jsonLogger(&buf, log.LevelInfo)))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Compile("<=phone"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Intercepts("print"); err != nil {
		t.Fatal(err)
	}

	if buf.Len() != 0 {
		t.Errorf("info logger wrote trace output: %s", buf.String())
	}
}

// Lenient commands log engine errors at warn level and carry on; the error's
// attributes must survive into the record.
func TestLogger_WarnEngineError(t *testing.T) {
	var buf bytes.Buffer

	logger := jsonLogger(&buf, log.LevelWarn).With(slog.String("command", "media"))

	_, err := lang.DefaultScope().Compile(">=10vw")
	if !errors.Is(err, lang.ErrUnit) {
		t.Fatalf("Compile error = %v, want ErrUnit", err)
	}

	logger.InfoContext(context.Background(), "dropped")
	logger.WarnContext(context.Background(), "skipped",
		slog.String("condition", ">=10vw"), slog.Any("error", err))

	recs := records(t, &buf)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1: %v", len(recs), recs)
	}

	rec := recs[0]
	if rec[slog.LevelKey] != "WARN" || rec["command"] != "media" || rec["condition"] != ">=10vw" {
		t.Errorf("record = %v", rec)
	}

	group, ok := rec["error"].(map[string]any)
	if !ok {
		t.Fatalf("error attr = %#v, want a group", rec["error"])
	}

	if group["error"] != "invalid unit" || group["unit"] != "vw" {
		t.Errorf("error group = %v", group)
	}
}

func TestLogger_LevelEnabled_Thresholds(t *testing.T) {
	tests := []struct {
		level   log.Level
		query   log.Level
		enabled bool
	}{
		{log.LevelTrace, log.LevelTrace, true},
		{log.LevelInfo, log.LevelTrace, false},
		{log.LevelInfo, log.LevelInfo, true},
		{log.LevelWarn, log.LevelInfo, false},
		{log.LevelWarn, log.LevelError, true},
	}

	for _, tt := range tests {
		l := log.Make(nil, log.WithLevel(tt.level))
		if got := l.LevelEnabled(tt.query); got != tt.enabled {
			t.Errorf("%v logger LevelEnabled(%v) = %v, want %v",
				tt.level, tt.query, got, tt.enabled)
		}
	}

	var zero log.Logger
	if zero.LevelEnabled(log.LevelError) {
		t.Error("zero Logger reports enabled")
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := jsonLogger(&buf, log.LevelWarn)
	verbose := base.Wrap(log.WithLevel(log.LevelDebug))

	if base.Level() != log.LevelWarn || verbose.Level() != log.LevelDebug {
		t.Errorf("levels = %v, %v", base.Level(), verbose.Level())
	}

	if verbose.Format() != log.FormatJSON {
		t.Errorf("Wrap dropped the format: %v", verbose.Format())
	}

	verbose.Debug("tables loaded", slog.Int("files", 2))

	recs := records(t, &buf)
	if len(recs) != 1 || recs[0]["files"] != float64(2) {
		t.Errorf("records = %v", recs)
	}
}
