package config

import (
	"testing"

	"github.com/i3/i3-sub000/internal/model"
)

func TestModeByNameFindsNamedMode(t *testing.T) {
	c := &Config{
		Modes: []model.KeyMode{
			{Name: "resize", Bindings: []model.Binding{{Command: "resize right 10"}}},
		},
	}
	got, ok := c.ModeByName("resize")
	if !ok || len(got.Bindings) != 1 {
		t.Fatalf("ModeByName(%q) = %v, %v", "resize", got, ok)
	}
	if _, ok := c.ModeByName("missing"); ok {
		t.Fatalf("ModeByName should report false for an unknown mode")
	}
}

func TestBarByIDFindsConfiguredBar(t *testing.T) {
	c := &Config{
		Bars: []model.BarConfig{{ID: "bar-0", Position: "top"}},
	}
	got, ok := c.BarByID("bar-0")
	if !ok || got.Position != "top" {
		t.Fatalf("BarByID(%q) = %v, %v", "bar-0", got, ok)
	}
	if _, ok := c.BarByID("missing"); ok {
		t.Fatalf("BarByID should report false for an unknown bar")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	snap := Snapshot{
		LastWorkspaceNum: map[string]int{"primary": 3},
		CrashRestart:     true,
	}
	if err := SaveSnapshot(snap, "0.2.0"); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.LastWorkspaceNum["primary"] != 3 || !loaded.CrashRestart {
		t.Fatalf("loaded snapshot = %+v, want workspace 3 / crash restart true", loaded)
	}
}

func TestSnapshotOlderThanMinCompatibleIsDiscarded(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	snap := Snapshot{LastWorkspaceNum: map[string]int{"primary": 5}}
	if err := SaveSnapshot(snap, "0.0.1"); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.LastWorkspaceNum != nil {
		t.Fatalf("a snapshot older than MinCompatibleVersion should be discarded, got %+v", loaded)
	}
}

func TestMissingSnapshotIsNotAnError(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	loaded, err := LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot on a cold start should not error: %v", err)
	}
	if loaded.Version != "" {
		t.Fatalf("expected a zero-value snapshot, got %+v", loaded)
	}
}
