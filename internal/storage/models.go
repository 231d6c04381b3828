/*
Package storage data models: archived interaction outcomes paired with the
reward they earned. Model snapshots reuse model.Snapshot directly.
*/
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// OutcomeRecord is one completed interaction as archived for analysis.
type OutcomeRecord struct {
	// InteractionID is the id minted at ingest time.
	InteractionID string `json:"interaction_id"`

	// TextHash is the SHA256 hash of the request text for privacy.
	TextHash string `json:"text_hash"`

	// PredictedIntent is the intent predicted at ingest.
	PredictedIntent string `json:"predicted_intent"`

	// ActualIntent is the confirmed intent, if the outcome carried one.
	ActualIntent string `json:"actual_intent,omitempty"`

	// Decision is the routing decision made at ingest.
	Decision string `json:"decision"`

	// ActualTools and ExpectedTools are the ordered tool sequences.
	ActualTools   []string `json:"actual_tools"`
	ExpectedTools []string `json:"expected_tools"`

	TaskSuccess   bool `json:"task_success"`
	LatencyMs     int  `json:"latency_ms"`
	ErrorOccurred bool `json:"error_occurred"`

	// Learned reports whether this outcome updated the model (hybrid
	// outcomes without confirmation are archived but not learned from).
	Learned bool `json:"learned"`

	// RewardTotal and RewardComponents come from the reward engine.
	RewardTotal      float64            `json:"reward_total"`
	RewardComponents map[string]float64 `json:"reward_components"`
	Penalty          float64            `json:"penalty"`

	// Timestamp is when the outcome was completed.
	Timestamp time.Time `json:"timestamp"`
}

// HashText creates a SHA256 hash of request text for privacy.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
