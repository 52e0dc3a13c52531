package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

const testConfig = `
breakpoints:
  phone: 360px
  tablet: 48em
  desktop: 1280
expressions:
  hover: "(hover: hover)"
intervals:
  px: 1
  em: 0.01
  "": 0
media-support: false
fallback: tablet
static-expressions: [hover]
predicates:
  min: fallback >= bound
config:
  log-level: debug
`

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(context.Background(), strings.NewReader(testConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if c.MediaSupport == nil || *c.MediaSupport {
		t.Errorf("MediaSupport = %v, want false", c.MediaSupport)
	}

	if c.Fallback != "tablet" {
		t.Errorf("Fallback = %q, want %q", c.Fallback, "tablet")
	}

	if c.Flags["log-level"] != "debug" {
		t.Errorf("Flags[log-level] = %v, want debug", c.Flags["log-level"])
	}

	s, err := c.Scope()
	if err != nil {
		t.Fatalf("Scope: %v", err)
	}

	tests := []struct {
		cond string
		want string
	}{
		{">phone", "(min-width: 361px)"},
		{"<tablet", "(max-width: 47.99em)"},
		{">=desktop", "(min-width: 1280)"},
		{"hover", "(hover: hover)"},
	}

	for _, tt := range tests {
		got, err := s.Compile(tt.cond)
		if err != nil {
			t.Errorf("Compile(%q) unexpected error: %v", tt.cond, err)

			continue
		}

		if got != tt.want {
			t.Errorf("Compile(%q) = %q, want %q", tt.cond, got, tt.want)
		}
	}

	// Tables in a config replace the defaults.
	if _, ok := s.Expression("retina2x"); ok {
		t.Error("default expression retina2x survived a replaced table")
	}

	if s.MediaSupport() {
		t.Error("MediaSupport() = true, want false")
	}

	// Fallback 48em, min predicate replaced, max predicate kept.
	ok, err := s.Intercepts("hover", ">=tablet", "<=tablet")
	if err != nil || !ok {
		t.Errorf("Intercepts = %v, %v; want true, nil", ok, err)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"malformed", "breakpoints: [", ErrConfig},
		{"unknown key", "breakpoint:\n  phone: 1px\n", ErrConfig},
		{"wrong shape", "intervals: 3\n", ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(context.Background(), strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Scope_AggregatesErrors(t *testing.T) {
	c := &Config{
		Breakpoints: map[string]any{
			"ok":    "10px",
			"bad":   "10parsecs",
			"weird": []any{1},
		},
		Expressions: map[string]string{"broken": "(min-width: 10px"},
		Predicates:  map[string]string{"max": "fallback <"},
	}

	_, err := c.Scope()

	for _, want := range []error{ErrConfig, ErrUnit, ErrType, ErrExpression, ErrPredicate} {
		if !errors.Is(err, want) {
			t.Errorf("Scope error = %v, want %v", err, want)
		}
	}

	var cause *Error
	if !errors.As(err, &cause) {
		t.Fatalf("Scope error %T is not *Error", err)
	}

	if n := len(multierr.Errors(cause.Unwrap())); n != 4 {
		t.Errorf("Scope reported %d errors, want 4", n)
	}
}

func TestConfig_Merge(t *testing.T) {
	off := false

	base := DefaultConfig()
	over := &Config{
		Breakpoints:       map[string]any{"tablet": "800px", "wide": "1440px"},
		MediaSupport:      &off,
		StaticExpressions: []string{},
	}

	merged := base.Merge(nil, over)

	if merged.Breakpoints["phone"] != "320px" || merged.Breakpoints["tablet"] != "800px" ||
		merged.Breakpoints["wide"] != "1440px" {
		t.Errorf("merged breakpoints = %v", merged.Breakpoints)
	}

	if merged.MediaSupport == nil || *merged.MediaSupport {
		t.Error("merged media support not overridden")
	}

	if merged.Fallback != "desktop" {
		t.Errorf("merged fallback = %q, want desktop", merged.Fallback)
	}

	if merged.StaticExpressions == nil || len(merged.StaticExpressions) != 0 {
		t.Errorf("merged static expressions = %q, want empty", merged.StaticExpressions)
	}

	// Inputs are left alone.
	if base.Breakpoints["tablet"] != "768px" || *base.MediaSupport != true {
		t.Error("Merge modified its receiver")
	}

	if _, ok := over.Breakpoints["phone"]; ok {
		t.Error("Merge modified its argument")
	}

	s, err := merged.Scope()
	if err != nil {
		t.Fatalf("Scope: %v", err)
	}

	if ok, err := s.Intercepts("screen"); err != nil || ok {
		t.Errorf("Intercepts(screen) = %v, %v; want false with no static expressions", ok, err)
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer

	if err := DefaultConfig().WriteYAML(ctx, &buf, 2); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	c, err := LoadConfig(ctx, &buf)
	if err != nil {
		t.Fatalf("LoadConfig: %v\n%s", err, buf.String())
	}

	s, err := c.Scope()
	if err != nil {
		t.Fatalf("Scope: %v", err)
	}

	def := DefaultScope()

	if !maps.Equal(s.Breakpoints(), def.Breakpoints()) {
		t.Errorf("breakpoints = %v, want %v", s.Breakpoints(), def.Breakpoints())
	}

	if !maps.Equal(s.Expressions(), def.Expressions()) {
		t.Errorf("expressions = %v, want %v", s.Expressions(), def.Expressions())
	}

	if !maps.Equal(s.Intervals(), def.Intervals()) {
		t.Errorf("intervals = %v, want %v", s.Intervals(), def.Intervals())
	}

	if s.fingerprint != def.fingerprint {
		t.Error("round-tripped scope has a different fingerprint")
	}
}

func TestConfig_WriteJSON(t *testing.T) {
	var buf bytes.Buffer

	if err := DefaultConfig().WriteJSON(context.Background(), &buf, 0); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	bps, ok := got["breakpoints"].(map[string]any)
	if !ok || bps["tablet"] != "768px" {
		t.Errorf("breakpoints = %v", got["breakpoints"])
	}

	if got["media-support"] != true {
		t.Errorf("media-support = %v, want true", got["media-support"])
	}
}
