package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/khanglvm/intent-hub-mcp/internal/feature"
	"github.com/khanglvm/intent-hub-mcp/internal/model"
)

// SaveSnapshot appends a model snapshot.
//
// The snapshot's version must be strictly greater than every version
// already stored; anything else is a PersistenceError. When the store is
// disabled the call is a no-op.
func (s *SQLiteStore) SaveSnapshot(snap *model.Snapshot) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var maxVersion sql.NullInt64
	row := s.db.QueryRow("SELECT MAX(version) FROM model_snapshots")
	if err := row.Scan(&maxVersion); err != nil {
		return &PersistenceError{Op: "save snapshot", Err: err}
	}
	if maxVersion.Valid && snap.Version <= maxVersion.Int64 {
		return &PersistenceError{
			Op:  "save snapshot",
			Err: fmt.Errorf("version %d not greater than stored max %d", snap.Version, maxVersion.Int64),
		}
	}

	weights, err := json.Marshal(snap.Weights)
	if err != nil {
		return &PersistenceError{Op: "save snapshot", Err: err}
	}
	intents, err := json.Marshal(snap.Intents)
	if err != nil {
		return &PersistenceError{Op: "save snapshot", Err: err}
	}

	_, err = s.db.Exec(`
		INSERT INTO model_snapshots (version, fingerprint, sample_count, learning_rate, intents, weights, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		snap.Version,
		snap.Fingerprint,
		snap.SampleCount,
		snap.LearningRate,
		string(intents),
		string(weights),
		snap.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return &PersistenceError{Op: "save snapshot", Err: err}
	}

	return nil
}

// LoadLatest returns the highest-version snapshot, or nil when the store
// holds none.
func (s *SQLiteStore) LoadLatest() (*model.Snapshot, error) {
	return s.loadSnapshot("SELECT version, fingerprint, sample_count, learning_rate, intents, weights, created_at FROM model_snapshots ORDER BY version DESC LIMIT 1")
}

// LoadVersion returns the snapshot with the given version, or an error
// when it does not exist.
func (s *SQLiteStore) LoadVersion(version int64) (*model.Snapshot, error) {
	snap, err := s.loadSnapshot("SELECT version, fingerprint, sample_count, learning_rate, intents, weights, created_at FROM model_snapshots WHERE version = ?", version)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("no snapshot with version %d", version)
	}
	return snap, nil
}

func (s *SQLiteStore) loadSnapshot(query string, args ...any) (*model.Snapshot, error) {
	if !s.enabled || s.db == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(query, args...)

	var snap model.Snapshot
	var intentsJSON, weightsJSON, createdAt string
	err := row.Scan(
		&snap.Version,
		&snap.Fingerprint,
		&snap.SampleCount,
		&snap.LearningRate,
		&intentsJSON,
		&weightsJSON,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(intentsJSON), &snap.Intents); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot intents: %w", err)
	}
	snap.Weights = make(map[string]feature.Vector)
	if err := json.Unmarshal([]byte(weightsJSON), &snap.Weights); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot weights: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		snap.CreatedAt = t
	}

	return &snap, nil
}
