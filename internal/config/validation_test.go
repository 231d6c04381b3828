package config

import (
	"errors"
	"testing"
)

func TestValidate_EmptyIntents(t *testing.T) {
	cfg := NewConfig()
	cfg.Intents = nil

	assertConfigurationError(t, cfg.Validate())
}

func TestValidate_DuplicateIntent(t *testing.T) {
	cfg := NewConfig()
	cfg.Intents = append(cfg.Intents, "read_code")

	assertConfigurationError(t, cfg.Validate())
}

func TestValidate_IntentWithoutMapping(t *testing.T) {
	cfg := NewConfig()
	delete(cfg.ToolMapping, "run_command")

	assertConfigurationError(t, cfg.Validate())
}

func TestValidate_MappingForUnknownIntent(t *testing.T) {
	cfg := NewConfig()
	cfg.ToolMapping["deploy_code"] = []string{"Bash"}

	assertConfigurationError(t, cfg.Validate())
}

func TestValidate_ThresholdsInverted(t *testing.T) {
	cfg := NewConfig()
	cfg.Routing.LowThreshold = 0.9
	cfg.Routing.HighThreshold = 0.5

	assertConfigurationError(t, cfg.Validate())
}

func TestValidate_NegativeRewardWeight(t *testing.T) {
	cfg := NewConfig()
	cfg.Reward.ToolMatch = -0.1

	assertConfigurationError(t, cfg.Validate())
}

func TestValidate_ZeroLearningRate(t *testing.T) {
	cfg := NewConfig()
	cfg.Learning.LearningRate = 0

	assertConfigurationError(t, cfg.Validate())
}

func TestValidate_UnknownCue(t *testing.T) {
	cfg := NewConfig()
	cfg.Features.Cues = append(cfg.Features.Cues, "has_emoji")

	assertConfigurationError(t, cfg.Validate())
}

func TestValidate_ValidConfigPasses(t *testing.T) {
	cfg := NewConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config to pass, got %v", err)
	}
}

func assertConfigurationError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("expected *ConfigurationError, got %T: %v", err, err)
	}
}
