package config

import (
	"os"
	"path/filepath"
	"testing"

	"surfwatch/internal/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8710" {
		t.Errorf("expected default listen address, got %q", cfg.Listen)
	}
	if cfg.Thresholds.SuggestConfidence != 0.80 {
		t.Errorf("expected default thresholds, got %+v", cfg.Thresholds)
	}
	if cfg.Retention.DomainTTLDays != 90 {
		t.Errorf("expected 90-day domain TTL, got %d", cfg.Retention.DomainTTLDays)
	}
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("listen: \"0.0.0.0:9000\"\nthresholds:\n  frequency_review: 10\n"), 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("expected override applied, got %q", cfg.Listen)
	}
	if cfg.Thresholds.FrequencyReview != 10 {
		t.Errorf("expected frequency override, got %d", cfg.Thresholds.FrequencyReview)
	}
	// Unspecified fields keep defaults.
	if cfg.Retention.EventTTLHours != 72 {
		t.Errorf("expected default event TTL, got %d", cfg.Retention.EventTTLHours)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("listen: [unterminated"), 0600)

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadWithHashChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	os.WriteFile(path, []byte("listen: \"127.0.0.1:1\"\n"), 0600)
	_, h1, err := LoadWithHash(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	os.WriteFile(path, []byte("listen: \"127.0.0.1:2\"\n"), 0600)
	_, h2, err := LoadWithHash(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if h1 == h2 {
		t.Error("expected differing hashes for differing content")
	}
}

func TestPrecedenceLevels(t *testing.T) {
	cfg := Default()
	cfg.Precedence = []string{"ACCOUNT", "TRANSACTION", "UGC"}

	got := cfg.PrecedenceLevels()
	want := []model.ActivityLevel{model.LevelAccount, model.LevelTransaction, model.LevelUGC}
	if len(got) != len(want) {
		t.Fatalf("expected %d levels, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPrecedenceLevelsSkipsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Precedence = []string{"ADMIN", "VIEW", "UGC"}

	got := cfg.PrecedenceLevels()
	if len(got) != 1 || got[0] != model.LevelUGC {
		t.Errorf("expected only UGC to survive, got %v", got)
	}
}

func TestPrecedenceLevelsEmptyFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Precedence = []string{"NONSENSE"}

	if got := cfg.PrecedenceLevels(); got != nil {
		t.Errorf("expected nil for fully invalid list, got %v", got)
	}
}

func TestDefaultYAMLParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(DefaultYAML()), 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("generated config must load: %v", err)
	}
	if cfg.Thresholds != Default().Thresholds {
		t.Errorf("generated thresholds diverge from defaults: %+v", cfg.Thresholds)
	}
}
