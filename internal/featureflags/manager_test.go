package featureflags

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", 1) || !m.Enabled("c", 1) || !m.Enabled("e", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", 1) || m.Enabled("d", 1) || m.Enabled("f", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", 1) {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	if m.Enabled("canary", 0) {
		t.Fatal("percentage rollout requires non-zero userID")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(raw))
	}
	if raw["x"] != "on" || raw["y"] != "20%" || raw["z"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	snap := m.Snapshot(123)
	if len(snap) != 3 {
		t.Fatalf("expected snapshot size 3, got %d", len(snap))
	}
}

func TestNewManagerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yml")
	content := "media_stats: \"on\"\nnew_feed: 25%\nlegacy_profiles: \"off\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write flags file: %v", err)
	}

	m, err := NewManagerFromFile(path)
	if err != nil {
		t.Fatalf("load flags file: %v", err)
	}

	if !m.Enabled("media_stats", 1) {
		t.Fatal("media_stats should be on")
	}
	if m.Enabled("legacy_profiles", 1) {
		t.Fatal("legacy_profiles should be off")
	}
	if raw := m.Raw(); raw["new_feed"] != "25%" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}
}

func TestNewManagerFromConfig(t *testing.T) {
	// Inline lists parse directly.
	if m := NewManagerFromConfig("x=on"); !m.Enabled("x", 1) {
		t.Fatal("inline config should parse")
	}

	// Missing files degrade to an empty manager, not a crash.
	m := NewManagerFromConfig("/nonexistent/flags.yml")
	if len(m.Raw()) != 0 {
		t.Fatalf("expected empty manager for missing file, got %#v", m.Raw())
	}
}
