package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/incmedia/lang"
	"github.com/ardnew/incmedia/log"
)

// testContext returns a context carrying a kong context whose output is
// captured in the returned buffer, and settings over the given tables.
func testContext(
	t *testing.T,
	tables string,
	lenient bool,
	vars kong.Vars,
) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, logs bytes.Buffer

	var cli struct{}

	parser, err := kong.New(&cli, vars, kong.Writers(&out, io.Discard))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	settings := &Settings{
		Tables: func(ctx context.Context) (*lang.Config, error) {
			c, err := lang.LoadConfig(ctx, strings.NewReader(tables))
			if err != nil {
				return nil, err
			}

			return lang.DefaultConfig().Merge(c), nil
		},
		Logger:  log.Make(&logs, log.WithFormat(log.FormatJSON), log.WithPretty(false)),
		Lenient: lenient,
	}

	ctx := WithSettings(WithContext(context.Background(), ktx), settings)

	return ctx, &out, &logs
}

func TestSettingsFrom_Default(t *testing.T) {
	s := settingsFrom(context.Background())

	scope, err := s.Scope(context.Background())
	if err != nil {
		t.Fatalf("Scope() error: %v", err)
	}

	if got, _ := scope.Breakpoint("tablet"); got.String() != "768px" {
		t.Errorf("default tablet = %v, want 768px", got)
	}
}

func TestSettings_Skip(t *testing.T) {
	var logs bytes.Buffer

	s := &Settings{Logger: log.Make(&logs, log.WithFormat(log.FormatJSON), log.WithPretty(false))}

	engine := lang.ErrUnit.With()

	if s.skip(context.Background(), engine) {
		t.Error("skip() = true without lenient")
	}

	s.Lenient = true

	if s.skip(context.Background(), nil) {
		t.Error("skip(nil) = true")
	}

	if s.skip(context.Background(), errors.New("write failed")) {
		t.Error("skip() = true for a non-engine error")
	}

	if !s.skip(context.Background(), engine) {
		t.Error("skip() = false for an engine error in lenient mode")
	}

	if !strings.Contains(logs.String(), "skipped") {
		t.Errorf("lenient skip not logged: %q", logs.String())
	}
}

func TestReadBody(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "first.css")
	if err := os.WriteFile(first, []byte("a {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	second := filepath.Join(dir, "second.css")
	if err := os.WriteFile(second, []byte("b {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(dir, "link.css")
	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		stdin   io.Reader
		paths   []string
		want    string
		wantErr error
	}{
		{"single", nil, []string{first}, "a {}\n", nil},
		{"ordered", nil, []string{second, first}, "b {}\na {}\n", nil},
		{"duplicate", nil, []string{first, link, first}, "a {}\n", nil},
		{"stdin last", strings.NewReader("c {}\n"), []string{"-", first, "-"}, "a {}\nc {}\n", nil},
		{"stdin absent", nil, []string{"-"}, "", nil},
		{"missing", nil, []string{filepath.Join(dir, "missing.css")}, "", ErrReadBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readBody(context.Background(), tt.stdin, tt.paths)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("readBody() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("readBody() error: %v", err)
			}

			if got != tt.want {
				t.Errorf("readBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := ErrWriteConfig.With().Wrap(ErrFileExists)

	if !errors.Is(err, ErrWriteConfig) {
		t.Error("derived error does not match its sentinel")
	}

	if !errors.Is(err, ErrFileExists) {
		t.Error("wrapped sentinel not found")
	}

	if errors.Is(err, ErrEncode) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if got, want := err.Error(), "write configuration file: file exists (use --force to overwrite)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
