package storage

import "database/sql"

// SchemaVersion is the declared schema version. Raising it drops and
// recreates every collection on the next open. There is no data-preserving
// migration path: a version bump is a deliberate, lossy reset.
const SchemaVersion = 2

// collectionTables lists every collection table, drop order first.
var collectionTables = []string{"reports", "records", "contacts"}

// createSchema creates the three collection tables and their secondary
// indexes. Every statement uses IF NOT EXISTS for idempotency.
func createSchema(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL DEFAULT 'Anonymous',
			contact     TEXT NOT NULL DEFAULT 'Not provided',
			location    TEXT NOT NULL DEFAULT 'Unknown',
			type        TEXT NOT NULL DEFAULT 'Other',
			date        TEXT NOT NULL,
			time        TEXT NOT NULL DEFAULT '00:00',
			description TEXT NOT NULL DEFAULT 'No description',
			status      TEXT NOT NULL DEFAULT 'Pending',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS records (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			name                TEXT NOT NULL DEFAULT 'Unknown',
			alias               TEXT,
			crime_type          TEXT NOT NULL DEFAULT 'Other',
			risk_level          TEXT NOT NULL DEFAULT 'Medium',
			last_known_location TEXT,
			notes               TEXT,
			created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS contacts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL DEFAULT 'Anonymous',
			email      TEXT NOT NULL DEFAULT 'No email',
			message    TEXT NOT NULL DEFAULT 'No message',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reports_type      ON reports(type)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_location  ON reports(location)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_date      ON reports(date)`,
		`CREATE INDEX IF NOT EXISTS idx_records_name      ON records(name)`,
		`CREATE INDEX IF NOT EXISTS idx_records_crime     ON records(crime_type)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_email    ON contacts(email)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
