package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunner_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	runner := NewMigrationRunner(db, nil)
	require.NoError(t, runner.Run())

	// All three collection tables should exist and be queryable.
	for _, table := range collectionTables {
		var count int64
		err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, int64(0), count)
	}

	version, err := runner.recordedVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestMigrationRunner_RunIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	runner := NewMigrationRunner(db, nil)
	require.NoError(t, runner.Run())
	require.NoError(t, runner.Run())

	var rows int64
	err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows, "repeated runs should not stack version rows")
}

func TestMigrationRunner_UpgradeDropsData(t *testing.T) {
	db := openTestDB(t)

	runner := NewMigrationRunner(db, nil)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.AddReport(context.Background(), testReport("Main St", "Theft"))
	require.NoError(t, err)

	// Rewind the recorded version to simulate a database written by an
	// older build, then migrate again.
	_, err = db.Exec("DELETE FROM schema_version")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion-1)
	require.NoError(t, err)

	require.NoError(t, runner.Run())

	var count int64
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&count))
	assert.Equal(t, int64(0), count, "upgrade should drop existing rows")

	version, err := runner.recordedVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestMigrationRunner_NewerVersionRefusesToRun(t *testing.T) {
	db := openTestDB(t)

	runner := NewMigrationRunner(db, nil)
	require.NoError(t, runner.Run())

	_, err := db.Exec("DELETE FROM schema_version")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion+1)
	require.NoError(t, err)

	err = runner.Run()
	require.Error(t, err)

	var unavailable *StorageUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}
