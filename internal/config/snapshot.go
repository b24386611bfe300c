package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/blang/semver/v4"
)

// snapshotFile is the persisted runtime-state file name, stored next to
// where the teacher keeps its own config.toml (§10).
const snapshotFile = "state.toml"

// Snapshot is the small piece of runtime state this module owns itself —
// not the configuration language's output, but what survives a restart:
// the last-shown workspace per output and whether the previous exit was a
// crash restart.
type Snapshot struct {
	Version          string
	LastWorkspaceNum map[string]int // keyed by output name
	CrashRestart     bool
}

// MinCompatibleVersion gates whether a saved snapshot from an older build
// is trusted; a snapshot older than this is discarded rather than loaded,
// since its shape may no longer match Snapshot.
var MinCompatibleVersion = semver.MustParse("0.1.0")

func snapshotPath() (string, error) {
	dir := xdgOrFallback("XDG_RUNTIME_DIR", filepath.Join(os.TempDir(), "i3-sub000"))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("config: snapshot dir: %w", err)
	}
	return filepath.Join(dir, snapshotFile), nil
}

// LoadSnapshot reads the persisted runtime state, returning a zero-value
// Snapshot (not an error) if none exists yet or if the saved version is
// older than MinCompatibleVersion — an absent or stale snapshot is not a
// failure, just a cold start.
func LoadSnapshot() (Snapshot, error) {
	path, err := snapshotPath()
	if err != nil {
		return Snapshot{}, err
	}
	ok, err := exists(path)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return Snapshot{}, nil
	}

	var snap Snapshot
	if _, err := toml.DecodeFile(path, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("config: decode snapshot: %w", err)
	}

	v, err := semver.Parse(snap.Version)
	if err != nil || v.LT(MinCompatibleVersion) {
		return Snapshot{}, nil
	}
	return snap, nil
}

// SaveSnapshot writes snap to disk, stamping it with version.
func SaveSnapshot(snap Snapshot, version string) error {
	snap.Version = version
	path, err := snapshotPath()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&snap); err != nil {
		return fmt.Errorf("config: encode snapshot: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// xdgOrFallback mirrors the teacher's config.go helper of the same name:
// prefer the named XDG variable's directory when it already exists, fall
// back otherwise.
func xdgOrFallback(xdgVar, fallback string) string {
	dir := os.Getenv(xdgVar)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	return fallback
}
