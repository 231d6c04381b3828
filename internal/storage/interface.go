/*
Package storage implements the persistent store for model snapshots and
the outcome archive.

This package provides SQLite-based storage with graceful degradation: if
the database cannot be opened the store is disabled, a warning is logged,
and the learner keeps serving from the in-memory model. The database lives
at ~/.intent-hub-mcp/models.db and uses modernc.org/sqlite (a pure Go,
CGo-free implementation).

Model snapshots are append-only and addressed by a monotonically
increasing integer version; old versions stay loadable for rollback.
*/
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/khanglvm/intent-hub-mcp/internal/model"
)

// PersistenceError represents a snapshot or archive write failure.
// Callers retry with backoff; on exhaustion serving continues in memory.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store defines the interface for persistent storage operations.
type Store interface {
	// Init opens the database and runs migrations.
	Init() error

	// SaveSnapshot appends a model snapshot. The version must be greater
	// than every previously saved version.
	SaveSnapshot(snap *model.Snapshot) error

	// LoadLatest returns the highest-version snapshot, or nil when the
	// store is empty.
	LoadLatest() (*model.Snapshot, error)

	// LoadVersion returns the snapshot with the given version.
	LoadVersion(version int64) (*model.Snapshot, error)

	// ArchiveOutcome records a completed interaction and its reward for
	// offline analysis.
	ArchiveOutcome(rec OutcomeRecord) error

	// RecentOutcomes returns the most recent archived outcomes.
	RecentOutcomes(limit int) ([]OutcomeRecord, error)

	// Cleanup removes archived outcomes older than the retention period.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db       *sql.DB
	dbPath   string
	logger   *zap.Logger
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// DefaultPath returns the default database location,
// ~/.intent-hub-mcp/models.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".intent-hub-mcp", "models.db"), nil
}

// NewStore creates a SQLite store at the given path.
// If the path is unusable the store degrades to disabled; operations
// become no-ops rather than failures.
func NewStore(dbPath string, logger *zap.Logger) *SQLiteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteStore{
		dbPath:  dbPath,
		logger:  logger,
		enabled: true,
	}
}

// Init opens the database and runs migrations.
//
// If initialization fails, the store is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStore) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			s.logger.Warn("storage disabled", zap.Error(initErr))
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			s.logger.Warn("storage disabled", zap.Error(initErr))
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			s.logger.Warn("storage disabled", zap.Error(initErr))
			return
		}
	})

	return initErr
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}
