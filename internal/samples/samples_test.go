package samples

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
)

func TestSeed_AllSamplesValid(t *testing.T) {
	cfg := config.NewConfig()

	for _, s := range Seed() {
		if err := s.Validate(cfg.HasIntent); err != nil {
			t.Errorf("seed sample %q invalid: %v", s.Text, err)
		}
		if s.Source != SourceSeed {
			t.Errorf("seed sample %q has source %s", s.Text, s.Source)
		}
	}
}

func TestSeed_CoversEveryIntent(t *testing.T) {
	cfg := config.NewConfig()

	covered := make(map[string]bool)
	for _, s := range Seed() {
		covered[s.Intent] = true
	}

	for _, intent := range cfg.Intents {
		if !covered[intent] {
			t.Errorf("no seed sample for intent %q", intent)
		}
	}
}

func TestValidate_RejectsBadSamples(t *testing.T) {
	cfg := config.NewConfig()

	bad := []*TrainingSample{
		{Text: "", Intent: "read_code", Weight: 1},
		{Text: "do something", Intent: "deploy_code", Weight: 1},
		{Text: "do something", Intent: "read_code", Weight: -1},
	}

	for i, s := range bad {
		if err := s.Validate(cfg.HasIntent); err == nil {
			t.Errorf("sample %d should fail validation", i)
		}
	}
}

func TestLoadFile_DefaultsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.json")
	content := `[{"text": "read the file", "intent": "read_code"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(loaded) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(loaded))
	}
	if loaded[0].Weight != 1.0 {
		t.Errorf("expected default weight 1.0, got %f", loaded[0].Weight)
	}
	if loaded[0].Source != SourceCollected {
		t.Errorf("expected default source collected, got %s", loaded[0].Source)
	}
}

func TestTexts_PreservesOrder(t *testing.T) {
	set := []*TrainingSample{
		{Text: "a"}, {Text: "b"}, {Text: "c"},
	}

	texts := Texts(set)
	if texts[0] != "a" || texts[1] != "b" || texts[2] != "c" {
		t.Errorf("expected [a b c], got %v", texts)
	}
}
