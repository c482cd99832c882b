package config

import (
	"path/filepath"
	"testing"

	"github.com/beautiful-code/crucible/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Prototype != "single-right" {
		t.Errorf("expected prototype single-right, got %s", cfg.Prototype)
	}
	if cfg.PretenseDuration <= 0 {
		t.Error("pretense duration should be positive")
	}
	if cfg.SurfaceMode() != physics.SurfaceBouncy {
		t.Errorf("expected default surface bouncy, got %v", cfg.SurfaceMode())
	}
}

func TestSurfaceMode(t *testing.T) {
	cases := map[string]physics.SurfaceMode{
		"absent": physics.SurfaceAbsent,
		"frozen": physics.SurfaceFrozen,
		"bouncy": physics.SurfaceBouncy,
		"":       physics.SurfaceBouncy,
		"bogus":  physics.SurfaceBouncy,
	}
	for name, want := range cases {
		cfg := &Config{Surface: name}
		if got := cfg.SurfaceMode(); got != want {
			t.Errorf("surface %q: expected %v, got %v", name, want, got)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("single-right", "taut")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.PretenstTarget != 0.25 {
		t.Errorf("expected pretenst target 0.25, got %f", cfg.PretenstTarget)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("single-right", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "default"); cfg != nil {
		t.Error("expected nil for nonexistent prototype")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("single-right")
	if len(presets) == 0 {
		t.Error("expected presets for single-right")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent prototype")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")

	original := GetPreset("single-right", "slack")
	if err := Save(path, original); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.PretenstTarget != original.PretenstTarget {
		t.Errorf("expected pretenst target %f, got %f", original.PretenstTarget, loaded.PretenstTarget)
	}
	if loaded.Prototype != original.Prototype {
		t.Errorf("expected prototype %s, got %s", original.Prototype, loaded.Prototype)
	}
}
