/*
Package model implements the multi-class linear intent scorer.

The model holds one sparse weight vector per intent over the feature space
produced by the extractor. Prediction is a dot product per intent followed
by a softmax; learning is a reward-weighted perceptron step with a decay
applied to the runner-up intent to preserve separability.

Concurrency follows a single-writer design: Predict may run on any number
of goroutines, Update is serialized behind the model's write lock, and
every update stamps a new version so cached consumers can detect staleness.
*/
package model

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/khanglvm/intent-hub-mcp/internal/feature"
)

// epsilon clamps confidence away from exactly 0 and 1 so downstream reward
// arithmetic never divides by zero.
const epsilon = 1e-6

// DimensionMismatchError reports an attempt to load a snapshot whose
// feature space does not match the running extractor configuration.
// It is fatal at load time; weights are never truncated or padded.
type DimensionMismatchError struct {
	SnapshotFingerprint string
	CurrentFingerprint  string
	Detail              string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("model dimension mismatch: %s (snapshot %.12s..., current %.12s...)",
		e.Detail, e.SnapshotFingerprint, e.CurrentFingerprint)
}

// Prediction is the result of scoring one feature vector.
type Prediction struct {
	// Intent is the argmax label; ties break to the lexicographically
	// smallest label.
	Intent string `json:"intent"`

	// Confidence is the softmax probability of Intent, clamped to
	// [epsilon, 1-epsilon].
	Confidence float64 `json:"confidence"`

	// Scores maps every intent to its softmax probability. The values
	// sum to 1 across intents.
	Scores map[string]float64 `json:"scores"`

	// Version is the model version that produced this prediction.
	Version int64 `json:"version"`
}

// Snapshot is an immutable copy of the model state, suitable for
// persistence and rollback.
type Snapshot struct {
	Version      int64                     `json:"version"`
	Intents      []string                  `json:"intents"`
	Weights      map[string]feature.Vector `json:"weights"`
	Fingerprint  string                    `json:"fingerprint"`
	SampleCount  int64                     `json:"sampleCount"`
	LearningRate float64                   `json:"learningRate"`
	CreatedAt    time.Time                 `json:"createdAt"`
}

// Model is the multi-class linear intent scorer.
type Model struct {
	mu sync.RWMutex

	version     int64
	intents     []string // sorted; fixed for the life of the model
	weights     map[string]feature.Vector
	fingerprint string
	sampleCount int64
	createdAt   time.Time

	learningRate  float64
	runnerUpDecay float64
}

// New creates a zero-weight model over the given intent set.
// The fingerprint identifies the feature space (see feature.Extractor).
func New(intents []string, fingerprint string, learningRate, runnerUpDecay float64) *Model {
	sorted := make([]string, len(intents))
	copy(sorted, intents)
	sort.Strings(sorted)

	weights := make(map[string]feature.Vector, len(sorted))
	for _, intent := range sorted {
		weights[intent] = make(feature.Vector)
	}

	return &Model{
		version:       1,
		intents:       sorted,
		weights:       weights,
		fingerprint:   fingerprint,
		createdAt:     time.Now(),
		learningRate:  learningRate,
		runnerUpDecay: runnerUpDecay,
	}
}

// Predict scores a feature vector against every intent.
// It never mutates model state and is safe for concurrent use.
func (m *Model) Predict(features feature.Vector) Prediction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw := m.rawScores(features)
	probs := softmax(raw, m.intents)

	best := m.intents[0]
	for _, intent := range m.intents[1:] {
		if probs[intent] > probs[best] {
			best = intent
		}
	}

	return Prediction{
		Intent:     best,
		Confidence: clamp(probs[best], epsilon, 1-epsilon),
		Scores:     probs,
		Version:    m.version,
	}
}

// Update performs a reward-weighted perceptron step toward targetIntent.
//
// The step magnitude is reward * learningRate per feature unit, so a
// successful low-confidence outcome reinforces more than an unsuccessful
// high-confidence one (negative reward reverses the step). The runner-up
// intent receives a decayed step in the opposite direction. Every call
// stamps a new version, even when the feature vector is empty.
func (m *Model) Update(features feature.Vector, targetIntent string, reward float64, learningRate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.weights[targetIntent]
	if !ok {
		return fmt.Errorf("unknown intent %q", targetIntent)
	}

	if learningRate <= 0 {
		learningRate = m.learningRate
	}

	runnerUp := m.runnerUpLocked(features, targetIntent)

	for f, v := range features {
		target[f] += reward * learningRate * v
		if runnerUp != "" {
			m.weights[runnerUp][f] -= reward * learningRate * v * m.runnerUpDecay
		}
	}

	m.version++
	m.sampleCount++
	return nil
}

// runnerUpLocked returns the highest-scoring intent other than target,
// or "" when there is no competitor. Caller holds the write lock.
func (m *Model) runnerUpLocked(features feature.Vector, target string) string {
	raw := m.rawScores(features)

	runnerUp := ""
	for _, intent := range m.intents {
		if intent == target {
			continue
		}
		if runnerUp == "" || raw[intent] > raw[runnerUp] {
			runnerUp = intent
		}
	}
	return runnerUp
}

// rawScores computes the per-intent dot products. Caller holds a lock.
func (m *Model) rawScores(features feature.Vector) map[string]float64 {
	scores := make(map[string]float64, len(m.intents))
	for _, intent := range m.intents {
		w := m.weights[intent]
		var sum float64
		for f, v := range features {
			sum += w[f] * v
		}
		scores[intent] = sum
	}
	return scores
}

// Version returns the current model version.
func (m *Model) Version() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// SampleCount returns how many updates the model has absorbed.
func (m *Model) SampleCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sampleCount
}

// Snapshot returns an immutable deep copy of the model state.
func (m *Model) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	weights := make(map[string]feature.Vector, len(m.weights))
	for intent, vec := range m.weights {
		cp := make(feature.Vector, len(vec))
		for f, v := range vec {
			cp[f] = v
		}
		weights[intent] = cp
	}

	intents := make([]string, len(m.intents))
	copy(intents, m.intents)

	return &Snapshot{
		Version:      m.version,
		Intents:      intents,
		Weights:      weights,
		Fingerprint:  m.fingerprint,
		SampleCount:  m.sampleCount,
		LearningRate: m.learningRate,
		CreatedAt:    m.createdAt,
	}
}

// Restore replaces the model state with a snapshot.
//
// The snapshot must cover the same intent set and the same feature-space
// fingerprint; anything else fails with *DimensionMismatchError.
func (m *Model) Restore(snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.Fingerprint != m.fingerprint {
		return &DimensionMismatchError{
			SnapshotFingerprint: snap.Fingerprint,
			CurrentFingerprint:  m.fingerprint,
			Detail:              "feature space fingerprint differs",
		}
	}

	snapIntents := make([]string, len(snap.Intents))
	copy(snapIntents, snap.Intents)
	sort.Strings(snapIntents)
	if len(snapIntents) != len(m.intents) {
		return &DimensionMismatchError{
			SnapshotFingerprint: snap.Fingerprint,
			CurrentFingerprint:  m.fingerprint,
			Detail: fmt.Sprintf("snapshot has %d intents, model has %d",
				len(snapIntents), len(m.intents)),
		}
	}
	for i, intent := range snapIntents {
		if intent != m.intents[i] {
			return &DimensionMismatchError{
				SnapshotFingerprint: snap.Fingerprint,
				CurrentFingerprint:  m.fingerprint,
				Detail:              fmt.Sprintf("intent set differs at %q", intent),
			}
		}
	}

	weights := make(map[string]feature.Vector, len(snap.Weights))
	for intent, vec := range snap.Weights {
		cp := make(feature.Vector, len(vec))
		for f, v := range vec {
			cp[f] = v
		}
		weights[intent] = cp
	}
	for _, intent := range m.intents {
		if _, ok := weights[intent]; !ok {
			weights[intent] = make(feature.Vector)
		}
	}

	m.weights = weights
	m.version = snap.Version
	m.sampleCount = snap.SampleCount
	m.createdAt = snap.CreatedAt
	return nil
}

// softmax converts raw scores to probabilities, subtracting the max score
// before exponentiating for numerical stability.
func softmax(raw map[string]float64, intents []string) map[string]float64 {
	max := math.Inf(-1)
	for _, intent := range intents {
		if raw[intent] > max {
			max = raw[intent]
		}
	}

	var sum float64
	exps := make(map[string]float64, len(intents))
	for _, intent := range intents {
		e := math.Exp(raw[intent] - max)
		exps[intent] = e
		sum += e
	}

	probs := make(map[string]float64, len(intents))
	for _, intent := range intents {
		probs[intent] = exps[intent] / sum
	}
	return probs
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
