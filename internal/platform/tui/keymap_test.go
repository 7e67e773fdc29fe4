package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-grove/internal/core"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDirection(t *testing.T) {
	keys := DefaultViewerKeyMap()
	tests := []struct {
		key    string
		want   core.Controls
		wantOK bool
	}{
		{"up", core.Controls{Y: -1}, true},
		{"w", core.Controls{Y: -1}, true},
		{"down", core.Controls{Y: 1}, true},
		{"s", core.Controls{Y: 1}, true},
		{"left", core.Controls{X: -1}, true},
		{"a", core.Controls{X: -1}, true},
		{"right", core.Controls{X: 1}, true},
		{"d", core.Controls{X: 1}, true},
		{" ", core.Controls{}, true},
		{"x", core.Controls{}, false},
		{"q", core.Controls{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := keys.Direction(keyMsg(tt.key))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Direction(%q) = %v, %v, expected %v, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHeldControlsDecay(t *testing.T) {
	var h HeldControls
	h.Press(core.Controls{X: 1})
	if got := h.Current(); got != (core.Controls{X: 1}) {
		t.Fatalf("Current() = %v, expected {1 0}", got)
	}

	for i := range HoldTicks - 1 {
		if h.Tick() {
			t.Fatalf("Tick() %d reported a change before the hold expired", i)
		}
	}
	if !h.Tick() {
		t.Fatal("Tick() did not report the release")
	}
	if !h.Current().IsZero() {
		t.Errorf("Current() after hold = %v, expected zero", h.Current())
	}
	if h.Tick() {
		t.Error("Tick() on released controls reported a change")
	}
}

func TestHeldControlsCombine(t *testing.T) {
	var h HeldControls
	h.Press(core.Controls{X: 1})
	h.Press(core.Controls{Y: -1})
	if got := h.Current(); got != (core.Controls{X: 1, Y: -1}) {
		t.Errorf("orthogonal presses = %v, expected {1 -1}", got)
	}
	h.Press(core.Controls{X: -1})
	if got := h.Current(); got != (core.Controls{X: -1, Y: -1}) {
		t.Errorf("opposite press = %v, expected {-1 -1}", got)
	}
	h.Press(core.Controls{})
	if !h.Current().IsZero() {
		t.Errorf("release = %v, expected zero", h.Current())
	}
}

func TestRepeatsExtendHold(t *testing.T) {
	var h HeldControls
	h.Press(core.Controls{Y: 1})
	for range 3 * HoldTicks {
		h.Tick()
		h.Press(core.Controls{Y: 1})
	}
	if got := h.Current(); got != (core.Controls{Y: 1}) {
		t.Errorf("Current() under repeats = %v, expected {0 1}", got)
	}
}
