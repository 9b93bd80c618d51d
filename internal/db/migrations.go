package db

import (
	"database/sql"
	"fmt"
)

// RunMigrations executes all database migrations
func RunMigrations(db *DB) error {
	// Check if schema_version table exists
	var tableExists bool
	err := db.QueryRow(`
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("failed to check schema_version table: %w", err)
	}

	if !tableExists {
		// First time initialization
		if err := initializeSchema(db); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		return nil
	}

	// Get current version
	var currentVersion int
	err = db.QueryRow(`
		SELECT version FROM schema_version
		ORDER BY applied_at DESC LIMIT 1
	`).Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Apply migrations if needed
	// Currently only version 1 exists
	if currentVersion < 1 {
		return fmt.Errorf("invalid schema version: %d", currentVersion)
	}

	return nil
}

// initializeSchema creates all tables for a new database
func initializeSchema(db *DB) error {
	tx, err := db.BeginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Schema version table
	if err := execSQL(tx, schemaVersionTable); err != nil {
		return err
	}

	// Accounts table
	if err := execSQL(tx, usersTable); err != nil {
		return err
	}

	// Travellers table
	if err := execSQL(tx, travellersTable); err != nil {
		return err
	}
	if err := execSQL(tx, travellersIndexes); err != nil {
		return err
	}

	// Scooters table
	if err := execSQL(tx, scootersTable); err != nil {
		return err
	}
	if err := execSQL(tx, scootersIndexes); err != nil {
		return err
	}

	// Audit log table
	if err := execSQL(tx, logsTable); err != nil {
		return err
	}
	if err := execSQL(tx, logsIndexes); err != nil {
		return err
	}

	// Restore codes table
	if err := execSQL(tx, restoreCodesTable); err != nil {
		return err
	}
	if err := execSQL(tx, restoreCodesIndexes); err != nil {
		return err
	}

	// Insert initial schema version
	if err := execSQL(tx, `INSERT INTO schema_version (version) VALUES (1)`); err != nil {
		return err
	}

	return tx.Commit()
}

// execSQL executes a SQL statement
func execSQL(tx *sql.Tx, query string) error {
	_, err := tx.Exec(query)
	return err
}

// Schema definitions. The users.username column holds an encryption token,
// so case-insensitive uniqueness is enforced by the account repository, not
// by the database.
const (
	schemaVersionTable = `
CREATE TABLE schema_version (
    version INTEGER NOT NULL,
    applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	usersTable = `
CREATE TABLE users (
    username      TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    first_name    TEXT,
    last_name     TEXT,
    registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	travellersTable = `
CREATE TABLE travellers (
    customer_id        TEXT PRIMARY KEY,
    first_name         TEXT NOT NULL,
    last_name          TEXT NOT NULL,
    birthday           TEXT NOT NULL,
    gender             TEXT NOT NULL,
    street_name        TEXT NOT NULL,
    house_number       TEXT NOT NULL,
    zip_code           TEXT NOT NULL,
    city               TEXT NOT NULL,
    email              TEXT NOT NULL,
    mobile_phone       TEXT NOT NULL,
    driving_license_no TEXT NOT NULL,
    registered_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	travellersIndexes = `
CREATE INDEX idx_travellers_last_name ON travellers(last_name)`

	scootersTable = `
CREATE TABLE scooters (
    serial_number    TEXT PRIMARY KEY,
    brand            TEXT NOT NULL,
    model            TEXT NOT NULL,
    top_speed        INTEGER NOT NULL,
    battery_capacity INTEGER NOT NULL,
    state_of_charge  INTEGER NOT NULL,
    target_range_soc TEXT NOT NULL,
    location         TEXT NOT NULL,
    out_of_service   INTEGER NOT NULL DEFAULT 0,
    mileage          REAL NOT NULL DEFAULT 0.0,
    last_maintenance DATETIME,
    in_service_since DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	scootersIndexes = `
CREATE INDEX idx_scooters_brand ON scooters(brand);
CREATE INDEX idx_scooters_out_of_service ON scooters(out_of_service)`

	logsTable = `
CREATE TABLE logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp       DATETIME NOT NULL,
    username        TEXT,
    description     TEXT NOT NULL,
    additional_info TEXT,
    suspicious      INTEGER NOT NULL DEFAULT 0
)`

	logsIndexes = `
CREATE INDEX idx_logs_timestamp ON logs(timestamp);
CREATE INDEX idx_logs_suspicious ON logs(suspicious)`

	restoreCodesTable = `
CREATE TABLE restore_codes (
    code                  TEXT PRIMARY KEY,
    system_admin_username TEXT NOT NULL,
    backup_name           TEXT NOT NULL,
    created_at            DATETIME NOT NULL,
    used                  INTEGER NOT NULL DEFAULT 0
)`

	restoreCodesIndexes = `
CREATE INDEX idx_restore_codes_admin ON restore_codes(system_admin_username)`
)
