package repl

import (
	"errors"
	"testing"

	"github.com/ardnew/incmedia/lang"
)

func TestEvaluate(t *testing.T) {
	static, err := lang.NewScope(lang.WithMediaSupport(false))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		scope   *lang.Scope
		line    string
		want    string
		wantErr error
	}{
		{
			name:  "single",
			scope: lang.DefaultScope(),
			line:  ">=tablet",
			want:  "@media (min-width: 768px) { }",
		},
		{
			name:  "nested",
			scope: lang.DefaultScope(),
			line:  "  >phone   landscape ",
			want:  "@media (min-width: 321px) { @media (orientation: landscape) { } }",
		},
		{
			name:    "unknown breakpoint",
			scope:   lang.DefaultScope(),
			line:    ">=wide",
			wantErr: lang.ErrUnit,
		},
		{"static pass", static, ">=tablet screen", "true", nil},
		{"static reject", static, "<tablet", "false", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluate(tt.scope, tt.line)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("evaluate() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("evaluate() error: %v", err)
			}

			if got != tt.want {
				t.Errorf("evaluate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHistoryStep(t *testing.T) {
	m := testModel(t)

	for _, e := range []HistoryEntry{
		{">=tablet", modeEval},
		{"list", modeCtrl},
		{"<phone", modeEval},
	} {
		if _, err := m.history.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	// Mode follows the visited entry.
	m = m.historyStep(-1, false)
	if m.input.Value() != "<phone" || m.mode != modeEval {
		t.Fatalf("step 1 = %q (mode %d)", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1, false)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Fatalf("step 2 = %q (mode %d)", m.input.Value(), m.mode)
	}

	// Same-mode navigation skips the eval entries.
	m = m.historyStep(-1, true)
	if m.input.Value() != "list" || m.historyIdx != 1 {
		t.Errorf("same-mode step = %q at %d", m.input.Value(), m.historyIdx)
	}

	// Stepping past the newest entry clears the input.
	m = m.historyStep(1, true)
	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("past newest = %q at %d", m.input.Value(), m.historyIdx)
	}
}

func TestHistoryCtrl(t *testing.T) {
	m := testModel(t)

	if _, err := m.history.WriteWithMode("exprs", modeCtrl); err != nil {
		t.Fatal(err)
	}

	m.historyIdx = m.history.Len()
	m.input.SetValue(">pho")

	m = m.historyCtrl(-1)
	if m.mode != modeCtrl || m.input.Value() != "exprs" {
		t.Fatalf("historyCtrl(-1) = %q (mode %d)", m.input.Value(), m.mode)
	}

	m = m.historyCtrl(1)
	if m.mode != modeEval || m.input.Value() != ">pho" || m.altNavActive {
		t.Errorf("historyCtrl(1) = %q (mode %d, alt %v), want original input",
			m.input.Value(), m.mode, m.altNavActive)
	}
}

func TestSwitchToMode(t *testing.T) {
	m := testModel(t)
	m.input.SetValue(">=tablet")

	m = m.switchToMode(modeCtrl)
	if m.input.Value() != "" {
		t.Errorf("ctrl input = %q, want empty", m.input.Value())
	}

	m.input.SetValue("li")

	m = m.switchToMode(modeEval)
	if m.input.Value() != ">=tablet" {
		t.Errorf("eval input = %q, want restored", m.input.Value())
	}

	m = m.switchToMode(modeCtrl)
	if m.input.Value() != "li" {
		t.Errorf("ctrl input = %q, want restored", m.input.Value())
	}
}
