package storage

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// ArchiveOutcome records a completed interaction and its reward.
// Write failures degrade to a warning; the archive is analysis data, not
// serving state.
func (s *SQLiteStore) ArchiveOutcome(rec OutcomeRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	actualTools, _ := json.Marshal(rec.ActualTools)
	expectedTools, _ := json.Marshal(rec.ExpectedTools)
	components, _ := json.Marshal(rec.RewardComponents)

	_, err := s.db.Exec(`
		INSERT INTO outcomes (
			interaction_id, text_hash, predicted_intent, actual_intent, decision,
			actual_tools, expected_tools, task_success, latency_ms,
			error_occurred, learned, reward_total, reward_components, penalty, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.InteractionID,
		rec.TextHash,
		rec.PredictedIntent,
		rec.ActualIntent,
		rec.Decision,
		string(actualTools),
		string(expectedTools),
		boolToInt(rec.TaskSuccess),
		rec.LatencyMs,
		boolToInt(rec.ErrorOccurred),
		boolToInt(rec.Learned),
		rec.RewardTotal,
		string(components),
		rec.Penalty,
		rec.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Warn("failed to archive outcome",
			zap.String("interaction_id", rec.InteractionID),
			zap.Error(err))
	}

	return nil
}

// RecentOutcomes returns the most recent archived outcomes, newest first.
func (s *SQLiteStore) RecentOutcomes(limit int) ([]OutcomeRecord, error) {
	if !s.enabled || s.db == nil {
		return []OutcomeRecord{}, nil
	}
	if limit <= 0 {
		limit = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT interaction_id, text_hash, predicted_intent, actual_intent, decision,
		       actual_tools, expected_tools, task_success, latency_ms,
		       error_occurred, learned, reward_total, reward_components, penalty, timestamp
		FROM outcomes
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		s.logger.Warn("failed to query outcomes", zap.Error(err))
		return []OutcomeRecord{}, nil
	}
	defer rows.Close()

	var records []OutcomeRecord
	for rows.Next() {
		var rec OutcomeRecord
		var actualTools, expectedTools, components, timestamp string
		var taskSuccess, errorOccurred, learned int

		if err := rows.Scan(
			&rec.InteractionID,
			&rec.TextHash,
			&rec.PredictedIntent,
			&rec.ActualIntent,
			&rec.Decision,
			&actualTools,
			&expectedTools,
			&taskSuccess,
			&rec.LatencyMs,
			&errorOccurred,
			&learned,
			&rec.RewardTotal,
			&components,
			&rec.Penalty,
			&timestamp,
		); err != nil {
			s.logger.Warn("failed to scan outcome row", zap.Error(err))
			continue
		}

		rec.TaskSuccess = taskSuccess == 1
		rec.ErrorOccurred = errorOccurred == 1
		rec.Learned = learned == 1
		json.Unmarshal([]byte(actualTools), &rec.ActualTools)
		json.Unmarshal([]byte(expectedTools), &rec.ExpectedTools)
		json.Unmarshal([]byte(components), &rec.RewardComponents)
		if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
			rec.Timestamp = t
		}

		records = append(records, rec)
	}

	return records, nil
}

// Cleanup removes archived outcomes older than the retention period.
// Snapshots are never cleaned up: the version history is append-only.
func (s *SQLiteStore) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).Format(time.RFC3339)
	_, err := s.db.Exec("DELETE FROM outcomes WHERE timestamp < ?", cutoff)
	if err != nil {
		return &PersistenceError{Op: "cleanup", Err: err}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
