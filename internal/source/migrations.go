package source

import (
	"database/sql"
	"fmt"
)

// SQLiteMigration represents a schema migration of the health export database
type SQLiteMigration struct {
	Version int
	Up      string
}

// sqliteMigrations contains all SQLite database migrations in chronological order
var sqliteMigrations = []SQLiteMigration{
	{
		Version: 1,
		Up: `CREATE TABLE quantity_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			start_ns INTEGER NOT NULL,
			end_ns INTEGER NOT NULL,
			value REAL NOT NULL,
			unit TEXT NOT NULL
		);

		CREATE INDEX idx_quantity_type_start ON quantity_samples(type, start_ns);

		CREATE TABLE category_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			start_ns INTEGER NOT NULL,
			end_ns INTEGER NOT NULL,
			value INTEGER NOT NULL
		);

		CREATE INDEX idx_category_type_start ON category_samples(type, start_ns);`,
	},
	{
		Version: 2,
		Up: `CREATE TABLE electrocardiograms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			start_ns INTEGER NOT NULL,
			end_ns INTEGER NOT NULL,
			classification TEXT NOT NULL,
			average_heart_rate REAL,
			average_heart_rate_unit TEXT
		);

		CREATE INDEX idx_ecg_start ON electrocardiograms(start_ns);

		CREATE TABLE authorizations (
			type TEXT PRIMARY KEY,
			granted INTEGER NOT NULL DEFAULT 0
		);`,
	},
}

// runSQLiteMigrations applies all pending SQLite migrations to the database
func runSQLiteMigrations(db *sql.DB) error {
	if err := createSQLiteMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := getCurrentSQLiteVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range sqliteMigrations {
		if migration.Version <= currentVersion {
			continue // Migration already applied
		}

		if err := applySQLiteMigration(db, migration); err != nil {
			return fmt.Errorf("failed to apply migration version %d: %w", migration.Version, err)
		}
	}

	return nil
}

func createSQLiteMigrationsTable(db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	)`

	_, err := db.Exec(query)
	return err
}

// getCurrentSQLiteVersion returns the highest applied migration version
func getCurrentSQLiteVersion(db *sql.DB) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`

	var version int
	err := db.QueryRow(query).Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// applySQLiteMigration applies a single migration within a transaction
func applySQLiteMigration(db *sql.DB, migration SQLiteMigration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.Up); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// GetSQLiteSchemaVersion returns the current schema version (for testing/debugging)
func GetSQLiteSchemaVersion(db *sql.DB) (int, error) {
	return getCurrentSQLiteVersion(db)
}
