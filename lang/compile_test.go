package lang

import (
	"errors"
	"testing"
)

func TestScope_Compile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"greater equal breakpoint", ">=tablet", "(min-width: 768px)"},
		{"greater breakpoint", ">tablet", "(min-width: 769px)"},
		{"less breakpoint", "<tablet", "(max-width: 767px)"},
		{"less equal breakpoint", "<=tablet", "(max-width: 768px)"},
		{"unicode greater equal", "≥tablet", "(min-width: 768px)"},
		{"unicode less equal", "≤phone", "(max-width: 320px)"},
		{"literal pixels", "<850px", "(max-width: 849px)"},
		{"literal em", ">48em", "(min-width: 48.01em)"},
		{"literal rem", "<3rem", "(max-width: 2.9rem)"},
		{"unit-less", ">10", "(min-width: 10)"},
		{"height", "height>=phone", "(min-height: 320px)"},
		{"height exclusive", "height>phone", "(min-height: 321px)"},
		{"named expression", "landscape", "(orientation: landscape)"},
		{"media type", "screen", "screen"},
		{
			"compound expression",
			"retina2x",
			"(-webkit-min-device-pixel-ratio: 2), (min-resolution: 192dpi), (min-resolution: 2dppx)",
		},
	}

	s := DefaultScope()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Compile(tt.input)
			if err != nil {
				t.Fatalf("Compile(%q) unexpected error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Compile(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScope_Compile_ExclusiveAddsInterval(t *testing.T) {
	s, err := DefaultScope().Tweak(map[string]Number{
		"narrow": {Value: 30, Unit: "em"},
		"column": {Value: 42.5, Unit: "rem"},
		"grid":   {Value: 12},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	for name, n := range s.Breakpoints() {
		interval, err := s.Interval(n.Unit)
		if err != nil {
			t.Fatalf("Interval(%q): %v", n.Unit, err)
		}

		cases := map[string]string{
			">=" + name: "(min-width: " + n.String() + ")",
			"<=" + name: "(max-width: " + n.String() + ")",
			">" + name:  "(min-width: " + n.Add(interval).String() + ")",
			"<" + name:  "(max-width: " + n.Add(-interval).String() + ")",
		}

		for cond, want := range cases {
			if got, err := s.Compile(cond); err != nil || got != want {
				t.Errorf("Compile(%q) = %q, %v; want %q", cond, got, err, want)
			}
		}
	}
}

func TestScope_Compile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no operator", "tablet", ErrGrammar},
		{"unknown name", ">huge", ErrUnit},
		{"no interval", ">10vw", ErrUnit},
		{"no interval inclusive", ">=10vw", ErrUnit},
		{"bad number", "<1.2.3px", ErrUnit},
	}

	s := DefaultScope()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Compile(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Compile(%q) = %q, %v; want error %v", tt.input, got, err, tt.wantErr)
			}
		})
	}
}

func TestScope_Compile_ExpressionShadowsComparison(t *testing.T) {
	s, err := NewScope(WithExpressions(map[string]string{">=tablet": "print"}))
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}

	got, err := s.Compile(">=tablet")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got != "print" {
		t.Errorf("Compile(%q) = %q, want %q", ">=tablet", got, "print")
	}
}

func TestScope_Interval(t *testing.T) {
	s := DefaultScope()

	tests := []struct {
		unit string
		want float64
	}{
		{"px", 1},
		{"em", 0.01},
		{"rem", 0.1},
		{"", 0},
	}

	for _, tt := range tests {
		got, err := s.Interval(tt.unit)
		if err != nil {
			t.Errorf("Interval(%q) unexpected error: %v", tt.unit, err)

			continue
		}

		if got != tt.want {
			t.Errorf("Interval(%q) = %v, want %v", tt.unit, got, tt.want)
		}
	}

	if _, err := s.Interval("vh"); !errors.Is(err, ErrUnit) {
		t.Errorf("Interval(%q) error = %v, want ErrUnit", "vh", err)
	}
}

func TestScope_Compile_Cache(t *testing.T) {
	ClearCache()

	s := DefaultScope()

	first, err := s.Compile(">tablet")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if _, ok := clauseCache.Load(cacheKey(s.fingerprint, ">tablet")); !ok {
		t.Fatal("clause not cached after Compile")
	}

	second, err := s.Compile(">tablet")
	if err != nil {
		t.Fatalf("Compile (cached): %v", err)
	}

	if first != second {
		t.Errorf("cached Compile = %q, want %q", second, first)
	}

	// A scope with a different vocabulary must not see the cached clause.
	wide, err := s.Tweak(map[string]Number{"tablet": {Value: 800, Unit: "px"}}, nil)
	if err != nil {
		t.Fatalf("Tweak: %v", err)
	}

	got, err := wide.Compile(">tablet")
	if err != nil {
		t.Fatalf("Compile (tweaked): %v", err)
	}

	if got != "(min-width: 801px)" {
		t.Errorf("tweaked Compile = %q, want %q", got, "(min-width: 801px)")
	}

	// An equal vocabulary shares the fingerprint.
	same, err := NewScope()
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}

	if same.fingerprint != s.fingerprint {
		t.Errorf("fingerprint mismatch for equal scopes: %x != %x", same.fingerprint, s.fingerprint)
	}

	ClearCache()

	if _, ok := clauseCache.Load(cacheKey(s.fingerprint, ">tablet")); ok {
		t.Error("clause still cached after ClearCache")
	}
}
