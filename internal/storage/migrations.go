package storage

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// MigrationRunner brings a SQLite database up to the declared SchemaVersion.
//
// Upgrade policy: when the recorded version is older than SchemaVersion, the
// existing collection tables are dropped and recreated empty. Callers must
// treat a version bump as a destructive reset.
type MigrationRunner struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewMigrationRunner creates a MigrationRunner. A nil logger falls back to
// the logrus standard logger.
func NewMigrationRunner(db *sql.DB, log *logrus.Logger) *MigrationRunner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MigrationRunner{db: db, log: log}
}

// Run enables WAL mode, creates the version tracking table, and applies the
// schema. Safe to invoke more than once; a no-op when the recorded version
// already matches SchemaVersion.
func (r *MigrationRunner) Run() error {
	// Enable WAL mode for concurrent read performance.
	if _, err := r.db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return &StorageUnavailableError{Err: fmt.Errorf("set WAL mode: %w", err)}
	}

	if _, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INTEGER NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return &StorageUnavailableError{Err: fmt.Errorf("create schema_version table: %w", err)}
	}

	current, err := r.recordedVersion()
	if err != nil {
		return &StorageUnavailableError{Err: fmt.Errorf("read schema version: %w", err)}
	}

	switch {
	case current == SchemaVersion:
		return nil
	case current > SchemaVersion:
		return &StorageUnavailableError{
			Err: fmt.Errorf("database schema version %d is newer than supported version %d", current, SchemaVersion),
		}
	}

	if err := r.apply(current); err != nil {
		return &StorageUnavailableError{Err: err}
	}

	return nil
}

// recordedVersion returns the version stored in schema_version, or 0 when
// the database has never been initialized.
func (r *MigrationRunner) recordedVersion() (int, error) {
	var version sql.NullInt64
	err := r.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}

// apply recreates the schema inside a single transaction. When upgrading
// from an earlier version it first drops every collection table.
func (r *MigrationRunner) apply(from int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if from > 0 {
		r.log.WithFields(logrus.Fields{
			"from": from,
			"to":   SchemaVersion,
		}).Warn("schema upgrade drops all existing data")

		for _, table := range collectionTables {
			if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
		}
	}

	if err := createSchema(tx); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("reset schema version: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}
