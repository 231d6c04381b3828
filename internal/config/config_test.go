package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}

	if len(cfg.Intents) != 8 {
		t.Errorf("expected 8 default intents, got %d", len(cfg.Intents))
	}

	if cfg.Routing.HighThreshold != 0.85 {
		t.Errorf("expected highThreshold 0.85, got %f", cfg.Routing.HighThreshold)
	}

	if cfg.Routing.LowThreshold != 0.40 {
		t.Errorf("expected lowThreshold 0.40, got %f", cfg.Routing.LowThreshold)
	}

	sum := cfg.Reward.ToolMatch + cfg.Reward.SequenceMatch + cfg.Reward.TaskSuccess + cfg.Reward.Efficiency
	if sum != 1.0 {
		t.Errorf("default reward weights should be normalized (sum 1.0), got %f", sum)
	}
}

func TestNewConfig_EveryIntentHasTools(t *testing.T) {
	cfg := NewConfig()

	for _, intent := range cfg.Intents {
		tools, ok := cfg.ToolMapping[intent]
		if !ok {
			t.Errorf("intent %q has no tool mapping", intent)
			continue
		}
		if len(tools) == 0 {
			t.Errorf("intent %q maps to zero tools", intent)
		}
	}
}

func TestSortedIntents_Deterministic(t *testing.T) {
	cfg := NewConfig()

	a := cfg.SortedIntents()
	b := cfg.SortedIntents()

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sorted intents differ across calls: %v vs %v", a, b)
		}
		if i > 0 && a[i-1] >= a[i] {
			t.Fatalf("intents not sorted at index %d: %v", i, a)
		}
	}
}

func TestSaveAndLoadFrom_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := NewConfig()
	cfg.Routing.HighThreshold = 0.9

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Routing.HighThreshold != 0.9 {
		t.Errorf("expected highThreshold 0.9 after round trip, got %f", loaded.Routing.HighThreshold)
	}
}

func TestLoadFrom_NotFound(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))

	var notFound *ConfigNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected ConfigNotFoundError, got %v", err)
	}
}

func TestLoadFrom_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidConfigError, got %v", err)
	}
}

func TestLoadFrom_MissingOptionalSectionsDefaulted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.json")
	minimal := `{
		"intents": ["read_code"],
		"toolMapping": {"read_code": ["Read"]}
	}`
	if err := os.WriteFile(path, []byte(minimal), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Routing == nil || cfg.Reward == nil || cfg.Learning == nil || cfg.Features == nil {
		t.Error("optional sections should be defaulted when omitted")
	}
}
