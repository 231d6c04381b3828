/*
Package samples provides the labeled training-sample model and the built-in
seed corpus used to bootstrap a fresh intent model.

Samples are immutable once created; the training set references them and
never copies. The seed corpus mirrors the bilingual request phrasing the
system sees in production.
*/
package samples

import (
	"encoding/json"
	"fmt"
	"os"
)

// Source says where a training sample came from.
type Source string

const (
	// SourceSeed marks built-in bootstrap samples.
	SourceSeed Source = "seed"

	// SourceCollected marks samples ingested from live interactions.
	SourceCollected Source = "collected"

	// SourceSynthetic marks generated samples.
	SourceSynthetic Source = "synthetic"
)

// TrainingSample is one labeled request.
type TrainingSample struct {
	// Text is the raw request text.
	Text string `json:"text"`

	// Intent is the labeled intent.
	Intent string `json:"intent"`

	// Tools is the ordered tool sequence that served the request.
	Tools []string `json:"tools,omitempty"`

	// Weight scales this sample's contribution during training (>= 0).
	Weight float64 `json:"weight"`

	// Source records the sample provenance.
	Source Source `json:"source"`
}

// Validate checks a sample against the given intent set.
func (s *TrainingSample) Validate(hasIntent func(string) bool) error {
	if s.Text == "" {
		return fmt.Errorf("sample has empty text")
	}
	if !hasIntent(s.Intent) {
		return fmt.Errorf("sample labeled with unknown intent %q", s.Intent)
	}
	if s.Weight < 0 {
		return fmt.Errorf("sample weight must be >= 0, got %f", s.Weight)
	}
	return nil
}

// LoadFile reads a JSON array of training samples from disk.
// Samples without a weight default to 1.0; without a source, to collected.
func LoadFile(path string) ([]*TrainingSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples file: %w", err)
	}

	var loaded []*TrainingSample
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse samples file: %w", err)
	}

	for _, s := range loaded {
		if s.Weight == 0 {
			s.Weight = 1.0
		}
		if s.Source == "" {
			s.Source = SourceCollected
		}
	}
	return loaded, nil
}

// Texts extracts the raw texts of a sample set, in order. The IDF builder
// consumes this.
func Texts(set []*TrainingSample) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = s.Text
	}
	return out
}
