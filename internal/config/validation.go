/*
Package config validation: every required key is checked at load time so a
broken config fails fast at startup (or is rejected on hot reload) instead
of surfacing as a bad prediction later.
*/
package config

import "fmt"

// KnownCues is the set of structural cue features the extractor implements.
// Config may enable any subset; unknown names are a ConfigurationError.
var KnownCues = []string{
	"has_file_extension",
	"has_quoted_path",
	"imperative_start",
	"has_question",
	"polite_request",
	"has_code_fence",
}

// Validate checks the configuration for missing or inconsistent values.
// It returns a *ConfigurationError describing the first problem found.
func (c *Config) Validate() error {
	if len(c.Intents) == 0 {
		return &ConfigurationError{Field: "intents", Message: "intent label set is empty"}
	}

	seen := make(map[string]bool, len(c.Intents))
	for _, intent := range c.Intents {
		if intent == "" {
			return &ConfigurationError{Field: "intents", Message: "empty intent label"}
		}
		if seen[intent] {
			return &ConfigurationError{Field: "intents", Message: fmt.Sprintf("duplicate intent label %q", intent)}
		}
		seen[intent] = true
	}

	if len(c.ToolMapping) == 0 {
		return &ConfigurationError{Field: "toolMapping", Message: "tool mapping table is empty"}
	}
	for intent, tools := range c.ToolMapping {
		if !seen[intent] {
			return &ConfigurationError{Field: "toolMapping", Message: fmt.Sprintf("mapping for unknown intent %q", intent)}
		}
		if len(tools) == 0 {
			return &ConfigurationError{Field: "toolMapping", Message: fmt.Sprintf("intent %q has no tools", intent)}
		}
	}
	for _, intent := range c.Intents {
		if _, ok := c.ToolMapping[intent]; !ok {
			return &ConfigurationError{Field: "toolMapping", Message: fmt.Sprintf("intent %q has no tool mapping", intent)}
		}
	}

	if c.Routing == nil {
		return &ConfigurationError{Field: "routing", Message: "missing routing section"}
	}
	if c.Routing.HighThreshold <= 0 || c.Routing.HighThreshold > 1 {
		return &ConfigurationError{Field: "routing.highThreshold", Message: "must be in (0, 1]"}
	}
	if c.Routing.LowThreshold < 0 || c.Routing.LowThreshold >= 1 {
		return &ConfigurationError{Field: "routing.lowThreshold", Message: "must be in [0, 1)"}
	}
	if c.Routing.LowThreshold > c.Routing.HighThreshold {
		return &ConfigurationError{Field: "routing", Message: "lowThreshold exceeds highThreshold"}
	}

	if c.Reward == nil {
		return &ConfigurationError{Field: "reward", Message: "missing reward section"}
	}
	for field, w := range map[string]float64{
		"reward.toolMatch":     c.Reward.ToolMatch,
		"reward.sequenceMatch": c.Reward.SequenceMatch,
		"reward.taskSuccess":   c.Reward.TaskSuccess,
		"reward.efficiency":    c.Reward.Efficiency,
		"reward.errorPenalty":  c.Reward.ErrorPenalty,
	} {
		if w < 0 {
			return &ConfigurationError{Field: field, Message: "must be non-negative"}
		}
	}
	if c.Reward.LatencyBudgetMs <= 0 {
		return &ConfigurationError{Field: "reward.latencyBudgetMs", Message: "must be positive"}
	}

	if c.Learning == nil {
		return &ConfigurationError{Field: "learning", Message: "missing learning section"}
	}
	if c.Learning.LearningRate <= 0 {
		return &ConfigurationError{Field: "learning.learningRate", Message: "must be positive"}
	}
	if c.Learning.RunnerUpDecay < 0 {
		return &ConfigurationError{Field: "learning.runnerUpDecay", Message: "must be non-negative"}
	}
	if c.Learning.BatchSize < 1 {
		return &ConfigurationError{Field: "learning.batchSize", Message: "must be at least 1"}
	}
	if c.Learning.WindowSize < 1 {
		return &ConfigurationError{Field: "learning.windowSize", Message: "must be at least 1"}
	}
	if c.Learning.MinObservations < 1 {
		return &ConfigurationError{Field: "learning.minObservations", Message: "must be at least 1"}
	}
	if c.Learning.PendingTTLSeconds < 1 {
		return &ConfigurationError{Field: "learning.pendingTtlSeconds", Message: "must be at least 1"}
	}
	if c.Learning.BufferSize < 1 {
		return &ConfigurationError{Field: "learning.bufferSize", Message: "must be at least 1"}
	}

	if c.Features == nil {
		return &ConfigurationError{Field: "features", Message: "missing features section"}
	}
	known := make(map[string]bool, len(KnownCues))
	for _, cue := range KnownCues {
		known[cue] = true
	}
	for _, cue := range c.Features.Cues {
		if !known[cue] {
			return &ConfigurationError{Field: "features.cues", Message: fmt.Sprintf("unknown cue %q", cue)}
		}
	}

	return nil
}
