/*
Package config handles loading, saving, and validating intent-hub-mcp configuration.

Configuration is stored in ~/.intent-hub-mcp.json and uses a unified camelCase
format. The intent label set, tool-mapping table, routing thresholds, reward
weights and learning parameters all live here as configuration, not code, so
adding an intent or retuning a threshold never requires a rebuild.

Schema:

	{
	  "intents": ["read_code", "write_code", ...],
	  "toolMapping": {"read_code": ["Read", "Glob"], ...},
	  "routing": {"highThreshold": 0.85, "lowThreshold": 0.40},
	  "reward": {"toolMatch": 0.3, "sequenceMatch": 0.2, ...},
	  "learning": {"learningRate": 0.01, "batchSize": 1, ...},
	  "features": {"useIdf": false, "stopWords": [...], "cues": [...]}
	}
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Config represents the root configuration structure.
type Config struct {
	// Intents is the closed set of intent labels. Adding a label is a
	// model-dimension change: existing snapshots for a different set
	// will not load.
	Intents []string `json:"intents"`

	// ToolMapping maps each intent to its default ordered tool sequence.
	ToolMapping map[string][]string `json:"toolMapping"`

	// Routing holds the confidence thresholds for local/remote routing.
	Routing *RoutingConfig `json:"routing,omitempty"`

	// Reward holds the reward-component weights.
	Reward *RewardConfig `json:"reward,omitempty"`

	// Learning holds learner and model-update parameters.
	Learning *LearningConfig `json:"learning,omitempty"`

	// Features holds feature-extraction options.
	Features *FeatureConfig `json:"features,omitempty"`
}

// RoutingConfig holds the confidence thresholds used by the router.
// Both values are hot-reloadable.
type RoutingConfig struct {
	// HighThreshold routes to the local model when confidence >= this value.
	HighThreshold float64 `json:"highThreshold"`

	// LowThreshold routes to the remote model when confidence < this value.
	LowThreshold float64 `json:"lowThreshold"`
}

// RewardConfig holds the weights applied to each reward component.
//
// The default weights sum to 1.0 so totals are comparable across runs;
// validation only requires them to be non-negative.
type RewardConfig struct {
	ToolMatch     float64 `json:"toolMatch"`
	SequenceMatch float64 `json:"sequenceMatch"`
	TaskSuccess   float64 `json:"taskSuccess"`
	Efficiency    float64 `json:"efficiency"`

	// ErrorPenalty is a flat penalty subtracted whenever the outcome
	// reports an error, independent of the weighted components.
	ErrorPenalty float64 `json:"errorPenalty"`

	// LatencyBudgetMs is the latency at which the efficiency component
	// bottoms out.
	LatencyBudgetMs int `json:"latencyBudgetMs"`
}

// LearningConfig holds learner and model-update parameters.
type LearningConfig struct {
	// LearningRate scales every weight update.
	LearningRate float64 `json:"learningRate"`

	// RunnerUpDecay scales the negative step applied to the runner-up
	// intent during an update (0 disables it).
	RunnerUpDecay float64 `json:"runnerUpDecay"`

	// BatchSize is how many completed interactions trigger a snapshot.
	// 1 means a snapshot after every completion (online learning).
	BatchSize int `json:"batchSize"`

	// WindowSize is the sliding window of outcomes the tool mapper
	// considers when refining a tool sequence.
	WindowSize int `json:"windowSize"`

	// MinObservations is how many times a sequence must be observed
	// before it can displace the configured default.
	MinObservations int `json:"minObservations"`

	// PendingTTLSeconds is how long an ingested interaction waits for
	// its outcome before the pending slot is expired.
	PendingTTLSeconds int `json:"pendingTtlSeconds"`

	// BufferSize is the capacity of the recent-outcome ring buffer.
	BufferSize int `json:"bufferSize"`
}

// FeatureConfig holds feature-extraction options.
type FeatureConfig struct {
	// UseIDF scales token features by inverse document frequency
	// learned from the training corpus.
	UseIDF bool `json:"useIdf"`

	// StopWords are tokens dropped before feature generation.
	StopWords []string `json:"stopWords,omitempty"`

	// Cues enables structural cue features by name. Unknown names are
	// rejected at validation time, not silently ignored.
	Cues []string `json:"cues,omitempty"`
}

// NewConfig creates a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Intents: []string{
			"read_code", "write_code", "edit_code", "debug_error",
			"run_test", "run_command", "search_code", "fix_bug",
		},
		ToolMapping: map[string][]string{
			"read_code":   {"Read", "Glob"},
			"write_code":  {"Write", "MultiEdit"},
			"edit_code":   {"Edit", "MultiEdit"},
			"search_code": {"Grep", "Glob"},
			"debug_error": {"Read", "Grep", "Bash"},
			"fix_bug":     {"Edit", "MultiEdit"},
			"run_test":    {"Bash", "Read"},
			"run_command": {"Bash"},
		},
		Routing: &RoutingConfig{
			HighThreshold: 0.85,
			LowThreshold:  0.40,
		},
		Reward: &RewardConfig{
			ToolMatch:       0.3,
			SequenceMatch:   0.2,
			TaskSuccess:     0.3,
			Efficiency:      0.2,
			ErrorPenalty:    0.5,
			LatencyBudgetMs: 30000,
		},
		Learning: &LearningConfig{
			LearningRate:      0.01,
			RunnerUpDecay:     0.5,
			BatchSize:         1,
			WindowSize:        50,
			MinObservations:   10,
			PendingTTLSeconds: 600,
			BufferSize:        200,
		},
		Features: &FeatureConfig{
			UseIDF: false,
			StopWords: []string{
				"the", "a", "an", "is", "are", "to", "of", "and", "or",
				"please", "can", "you", "me", "my", "i",
			},
			Cues: []string{
				"has_file_extension", "has_quoted_path", "imperative_start",
				"has_question", "polite_request", "has_code_fence",
			},
		},
	}
}

// SortedIntents returns the intent labels in lexicographic order.
// Prediction tie-breaking and snapshot fingerprints rely on this order.
func (c *Config) SortedIntents() []string {
	out := make([]string, len(c.Intents))
	copy(out, c.Intents)
	sort.Strings(out)
	return out
}

// HasIntent reports whether label is part of the configured intent set.
func (c *Config) HasIntent(label string) bool {
	for _, in := range c.Intents {
		if in == label {
			return true
		}
	}
	return false
}

// GetDefaultConfigPath returns the path to ~/.intent-hub-mcp.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".intent-hub-mcp.json"), nil
}
