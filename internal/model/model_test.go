package model

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/khanglvm/intent-hub-mcp/internal/feature"
)

var testIntents = []string{"read_code", "write_code", "debug_error"}

func newTestModel() *Model {
	return New(testIntents, "fp-test", 0.01, 0.5)
}

func TestPredict_SoftmaxSumsToOne(t *testing.T) {
	m := newTestModel()
	m.Update(feature.Vector{"word_read": 1}, "read_code", 1.0, 0.5)

	pred := m.Predict(feature.Vector{"word_read": 1, "word_file": 2})

	var sum float64
	for _, p := range pred.Scores {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("softmax probabilities should sum to 1, got %f", sum)
	}
	if pred.Confidence <= 0 || pred.Confidence >= 1 {
		t.Errorf("confidence must be strictly inside (0, 1), got %f", pred.Confidence)
	}
}

func TestPredict_ZeroWeightsTieBreaksLexicographic(t *testing.T) {
	m := newTestModel()

	pred := m.Predict(feature.Vector{"word_anything": 1})

	// All scores equal: the lexicographically smallest label wins.
	if pred.Intent != "debug_error" {
		t.Errorf("expected tie to break to debug_error, got %s", pred.Intent)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	m := newTestModel()
	m.Update(feature.Vector{"word_read": 1, "word_file": 1}, "read_code", 0.8, 0.1)

	vec := feature.Vector{"word_read": 1, "word_file": 1, "length": 0.2}
	a := m.Predict(vec)
	b := m.Predict(vec)

	if !reflect.DeepEqual(a, b) {
		t.Error("predict must be deterministic for fixed model version")
	}
}

func TestPredict_DoesNotMutate(t *testing.T) {
	m := newTestModel()
	vec := feature.Vector{"word_read": 1}

	before := m.Version()
	m.Predict(vec)
	m.Predict(vec)

	if m.Version() != before {
		t.Error("predict must not change the model version")
	}
}

func TestUpdate_MonotonicVersion(t *testing.T) {
	m := newTestModel()

	v0 := m.Version()
	for i := 0; i < 5; i++ {
		if err := m.Update(feature.Vector{"word_x": 1}, "read_code", 1.0, 0.01); err != nil {
			t.Fatal(err)
		}
		v1 := m.Version()
		if v1 != v0+1 {
			t.Fatalf("expected version %d after update, got %d", v0+1, v1)
		}
		v0 = v1
	}
}

func TestUpdate_ReinforcesTarget(t *testing.T) {
	m := newTestModel()
	vec := feature.Vector{"word_read": 1, "word_file": 1}

	for i := 0; i < 10; i++ {
		if err := m.Update(vec, "read_code", 1.0, 0.5); err != nil {
			t.Fatal(err)
		}
	}

	pred := m.Predict(vec)
	if pred.Intent != "read_code" {
		t.Errorf("expected read_code after reinforcement, got %s", pred.Intent)
	}
	if pred.Confidence <= 1.0/3.0 {
		t.Errorf("confidence should rise above uniform after reinforcement, got %f", pred.Confidence)
	}
}

func TestUpdate_RewardModulatesMagnitude(t *testing.T) {
	small := newTestModel()
	large := newTestModel()
	vec := feature.Vector{"word_fix": 1}

	small.Update(vec, "debug_error", 0.1, 0.5)
	large.Update(vec, "debug_error", 1.0, 0.5)

	ps := small.Predict(vec)
	pl := large.Predict(vec)

	if pl.Scores["debug_error"] <= ps.Scores["debug_error"] {
		t.Errorf("larger reward should move weights further: %f vs %f",
			pl.Scores["debug_error"], ps.Scores["debug_error"])
	}
}

func TestUpdate_NegativeRewardPenalizes(t *testing.T) {
	m := newTestModel()
	vec := feature.Vector{"word_run": 1}

	m.Update(vec, "write_code", -1.0, 0.5)

	pred := m.Predict(vec)
	if pred.Intent == "write_code" {
		t.Error("negative reward should push prediction away from the target intent")
	}
}

func TestUpdate_UnknownIntent(t *testing.T) {
	m := newTestModel()

	if err := m.Update(feature.Vector{"word_x": 1}, "deploy_code", 1.0, 0.01); err == nil {
		t.Error("expected error for unknown intent")
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	m := newTestModel()
	vec := feature.Vector{"word_read": 1}
	m.Update(vec, "read_code", 1.0, 0.5)

	snap := m.Snapshot()
	predBefore := m.Predict(vec)

	// Diverge, then roll back.
	m.Update(vec, "write_code", 1.0, 0.9)
	if err := m.Restore(snap); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	predAfter := m.Predict(vec)
	if !reflect.DeepEqual(predBefore, predAfter) {
		t.Error("restored model should reproduce pre-snapshot predictions")
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	m := newTestModel()
	m.Update(feature.Vector{"word_read": 1}, "read_code", 1.0, 0.5)

	snap := m.Snapshot()
	snap.Weights["read_code"]["word_read"] = 999

	pred := m.Predict(feature.Vector{"word_read": 1})
	if pred.Scores["read_code"] > 0.99 {
		t.Error("mutating a snapshot must not affect the live model")
	}
}

func TestRestore_FingerprintMismatch(t *testing.T) {
	m := newTestModel()
	snap := m.Snapshot()
	snap.Fingerprint = "fp-other"

	err := m.Restore(snap)

	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected DimensionMismatchError, got %v", err)
	}
}

func TestRestore_IntentSetMismatch(t *testing.T) {
	m := newTestModel()
	snap := m.Snapshot()
	snap.Intents = []string{"read_code", "write_code"}

	err := m.Restore(snap)

	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected DimensionMismatchError, got %v", err)
	}
}

func TestSoftmax_NumericalStability(t *testing.T) {
	m := newTestModel()

	// Huge raw scores must not overflow exp.
	m.Update(feature.Vector{"word_big": 1}, "read_code", 1.0, 1000)

	pred := m.Predict(feature.Vector{"word_big": 1})

	for intent, p := range pred.Scores {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Errorf("score for %s is not finite: %f", intent, p)
		}
	}
	if pred.Confidence >= 1 {
		t.Errorf("confidence must be clamped below 1, got %f", pred.Confidence)
	}
}
