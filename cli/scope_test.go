package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/incmedia/lang"
)

func writeTables(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestScopeConfig_Files(t *testing.T) {
	t.Setenv(pathEnv(), "")

	dir := t.TempDir()
	config := writeTables(t, dir, "config.yaml", "fallback: tablet\n")
	extra := writeTables(t, dir, "extra.yaml", "fallback: phone\n")

	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(extra, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		config string
		tables []string
		want   []string
	}{
		{"config only", config, nil, []string{config}},
		{"missing config", filepath.Join(dir, "absent.yaml"), []string{extra}, []string{extra}},
		{"config is a directory", dir, nil, nil},
		{"tables after config", config, []string{extra}, []string{config, extra}},
		{"duplicate through symlink", config, []string{extra, link}, []string{config, extra}},
		{"duplicate config", config, []string{config}, []string{config}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := scopeConfig{Tables: tt.tables}

			if got := f.files(tt.config); !slices.Equal(got, tt.want) {
				t.Errorf("files() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScopeConfig_Load(t *testing.T) {
	dir := t.TempDir()

	first := writeTables(t, dir, "first.yaml", `
breakpoints:
  tablet: 800px
  wide: 90em
fallback: wide
`)
	second := writeTables(t, dir, "second.yaml", `
breakpoints:
  wide: 1440px
static-expressions: [screen]
`)

	f := scopeConfig{
		Breakpoint:     map[string]string{"phone": "360px"},
		Expression:     map[string]string{"hover": "(hover: hover)"},
		Interval:       map[string]float64{"px": 2},
		NoMediaSupport: true,
	}

	c, err := f.load(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	s, err := c.Scope()
	if err != nil {
		t.Fatalf("Scope() error: %v", err)
	}

	wantBreakpoints := map[string]string{
		"phone":   "360px",
		"tablet":  "800px",
		"desktop": "1024px",
		"wide":    "1440px",
	}

	for name, want := range wantBreakpoints {
		if got, ok := s.Breakpoint(name); !ok || got.String() != want {
			t.Errorf("breakpoint %q = %v (%v), want %s", name, got, ok, want)
		}
	}

	if got, ok := s.Expression("hover"); !ok || got != "(hover: hover)" {
		t.Errorf("expression hover = %q (%v)", got, ok)
	}

	if _, ok := s.Expression("retina2x"); !ok {
		t.Error("default expression retina2x dropped by merge")
	}

	if got, _ := s.Interval("px"); got != 2 {
		t.Errorf("interval px = %v, want 2", got)
	}

	if s.MediaSupport() {
		t.Error("media support enabled, want disabled by flag")
	}

	if got := s.Fallback(); got != "wide" {
		t.Errorf("fallback = %q, want wide", got)
	}

	if got := s.StaticExpressions(); !slices.Equal(got, []string{"screen"}) {
		t.Errorf("static expressions = %q, want [screen]", got)
	}
}

func TestScopeConfig_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeTables(t, dir, "bad.yaml", "breakpoints: [phone]\n")

	var f scopeConfig

	if _, err := f.load(context.Background(), []string{bad}); !errors.Is(err, lang.ErrConfig) {
		t.Errorf("load(bad) error = %v, want ErrConfig", err)
	}

	missing := filepath.Join(dir, "missing.yaml")
	if _, err := f.load(context.Background(), []string{missing}); !errors.Is(err, lang.ErrReadInput) {
		t.Errorf("load(missing) error = %v, want ErrReadInput", err)
	}

	f.Breakpoint = map[string]string{"phone": "20vw"}

	c, err := f.load(context.Background(), nil)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if _, err := c.Scope(); !errors.Is(err, lang.ErrUnit) {
		t.Errorf("Scope() error = %v, want ErrUnit", err)
	}
}

func TestScopeConfig_Overrides(t *testing.T) {
	var f scopeConfig

	c := f.overrides()
	if c.Breakpoints != nil || c.Expressions != nil || c.Intervals != nil ||
		c.MediaSupport != nil || c.Fallback != "" || c.StaticExpressions != nil {
		t.Errorf("overrides() of unset flags = %+v, want empty", c)
	}

	f.Fallback = "phone"
	f.StaticExpression = []string{"print"}

	c = f.overrides()
	if c.Fallback != "phone" || !slices.Equal(c.StaticExpressions, []string{"print"}) {
		t.Errorf("overrides() = %+v", c)
	}
}
