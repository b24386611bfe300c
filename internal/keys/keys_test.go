package keys

import (
	"testing"

	"github.com/i3/i3-sub000/internal/model"
)

func TestLookupPrefersModeSwitchBinding(t *testing.T) {
	bindings := []model.Binding{
		{Modifiers: 1 | model.BindModeSwitch, Keycodes: []byte{38}, Command: "mode-switch-variant"},
		{Modifiers: 1, Keycodes: []byte{38}, Command: "plain-variant"},
	}
	b, ok := Lookup(bindings, 38, 1, true)
	if !ok || b.Command != "mode-switch-variant" {
		t.Fatalf("expected the mode-switch binding to win, got %+v (ok=%v)", b, ok)
	}
}

func TestLookupFallsBackWithoutModeSwitchMatch(t *testing.T) {
	bindings := []model.Binding{
		{Modifiers: 1, Keycodes: []byte{38}, Command: "plain-variant"},
	}
	b, ok := Lookup(bindings, 38, 1, true)
	if !ok || b.Command != "plain-variant" {
		t.Fatalf("expected fallback to the plain binding, got %+v (ok=%v)", b, ok)
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	bindings := []model.Binding{{Modifiers: 1, Keycodes: []byte{38}, Command: "x"}}
	if _, ok := Lookup(bindings, 39, 1, false); ok {
		t.Fatalf("unmatched keycode should not resolve")
	}
}
