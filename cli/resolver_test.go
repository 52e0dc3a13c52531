package cli

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}

	return val
}

func TestResolve_ConfigSection(t *testing.T) {
	tables := `
breakpoints:
  tablet: 800px
config:
  log_level: debug
  log-format: text
  lenient: true
  static-expression: [screen, print]
  breakpoint:
    wide: 1440px
    phone: 360px
  interval:
    px: 1
`

	loader := resolve(context.Background())

	resolver, err := loader(strings.NewReader(tables))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log_level", "debug"},
		{"log-format", "text"},
		{"lenient", true},
		{"static-expression", []any{"screen", "print"}},
		{"breakpoint", "phone=360px;wide=1440px"},
		{"interval", "px=1"},
		{"tablet", nil},
		{"fallback", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got := resolveFlag(t, resolver, tt.flag)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_InvalidFile(t *testing.T) {
	loader := resolve(context.Background())

	for _, tables := range []string{
		"config: [unterminated",
		"unknown-section: 1",
	} {
		resolver, err := loader(strings.NewReader(tables))
		if err != nil {
			t.Fatalf("resolve(%q) returned error: %v", tables, err)
		}

		if val := resolveFlag(t, resolver, "log-level"); val != nil {
			t.Errorf("resolve(%q) log-level = %v, want nil", tables, val)
		}
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int", 42, "42"},
		{"int64", int64(-3), "-3"},
		{"uint64", uint64(7), "7"},
		{"float", 0.5, "0.5"},
		{"string", "json", "json"},
		{"bool", false, false},
		{"list", []any{uint64(1), "em"}, []any{"1", "em"}},
		{"map", map[string]any{"b": "2em", "a": uint64(1)}, "a=1;b=2em"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagValue(tt.value); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("flagValue(%#v) = %#v, want %#v", tt.value, got, tt.want)
			}
		})
	}
}
