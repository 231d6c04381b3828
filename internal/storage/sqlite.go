/*
Package storage schema definitions and migration logic.
*/
package storage

import (
	"fmt"

	"go.uber.org/zap"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStore) runMigrations() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "initial_schema", up: s.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			s.logger.Info("running migration",
				zap.Int("version", m.version),
				zap.String("name", m.name))
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStore) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.Exec(query)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStore) getCurrentMigrationVersion() (int, error) {
	query := "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"
	row := s.db.QueryRow(query)

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStore) setMigrationVersion(version int) error {
	query := "INSERT INTO schema_migrations (version, name) VALUES (?, ?)"
	_, err := s.db.Exec(query, version, fmt.Sprintf("migration_%d", version))
	return err
}

// migration001InitialSchema creates the initial database schema.
func (s *SQLiteStore) migration001InitialSchema() error {
	// Append-only model snapshots, addressed by version.
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS model_snapshots (
			version INTEGER PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			sample_count INTEGER NOT NULL,
			learning_rate REAL NOT NULL,
			intents TEXT NOT NULL,
			weights TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create model_snapshots table: %w", err)
	}

	// Outcome archive for offline analysis.
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			interaction_id TEXT NOT NULL UNIQUE,
			text_hash TEXT NOT NULL,
			predicted_intent TEXT NOT NULL,
			actual_intent TEXT,
			decision TEXT NOT NULL,
			actual_tools TEXT NOT NULL,
			expected_tools TEXT NOT NULL,
			task_success INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			error_occurred INTEGER NOT NULL,
			learned INTEGER NOT NULL,
			reward_total REAL NOT NULL,
			reward_components TEXT NOT NULL,
			penalty REAL NOT NULL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create outcomes table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_outcomes_timestamp
		ON outcomes(timestamp DESC)
	`); err != nil {
		return fmt.Errorf("failed to create outcomes timestamp index: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_outcomes_intent
		ON outcomes(predicted_intent)
	`); err != nil {
		return fmt.Errorf("failed to create outcomes intent index: %w", err)
	}

	return nil
}
