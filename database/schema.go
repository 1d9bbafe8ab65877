package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Schema contains the database schema for the election monitoring service.
// ENUM columns enforce the crowd-level, report-type, severity, status and
// role invariants at the store level; foreign keys enforce report
// referential integrity.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(256) NOT NULL,
    email VARCHAR(256) NOT NULL,
    password_hash VARCHAR(256) NOT NULL,
    phone VARCHAR(32),
    location VARCHAR(256),
    role ENUM('citizen', 'admin', 'observer', 'analyst') NOT NULL DEFAULT 'citizen',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY unique_email (email)
);

CREATE TABLE IF NOT EXISTS polling_stations (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(256) NOT NULL,
    address VARCHAR(512) NOT NULL,
    latitude DOUBLE,
    longitude DOUBLE,
    capacity INT NOT NULL,
    current_crowd_level ENUM('low', 'medium', 'high') NOT NULL DEFAULT 'low',
    voting_start VARCHAR(16),
    voting_end VARCHAR(16),
    official_in_charge VARCHAR(64),
    total_voters INT NOT NULL DEFAULT 0,
    voters_turnout INT NOT NULL DEFAULT 0,
    is_open BOOLEAN NOT NULL DEFAULT TRUE,
    last_crowd_level_update TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    FOREIGN KEY (official_in_charge) REFERENCES users(id) ON DELETE SET NULL,
    INDEX idx_crowd_level (current_crowd_level)
);

CREATE TABLE IF NOT EXISTS reports (
    id VARCHAR(64) PRIMARY KEY,
    reporter VARCHAR(64) NOT NULL,
    polling_station VARCHAR(64) NOT NULL,
    type ENUM('crowd_level', 'issue', 'observation', 'irregularity') NOT NULL,
    description TEXT NOT NULL,
    severity ENUM('low', 'medium', 'high', 'critical') NOT NULL DEFAULT 'low',
    status ENUM('reported', 'under_review', 'resolved', 'closed') NOT NULL DEFAULT 'reported',
    crowd_level ENUM('low', 'medium', 'high'),
    attachments JSON,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    verified_by VARCHAR(64),
    timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    FOREIGN KEY (reporter) REFERENCES users(id),
    FOREIGN KEY (polling_station) REFERENCES polling_stations(id),
    FOREIGN KEY (verified_by) REFERENCES users(id) ON DELETE SET NULL,
    INDEX idx_reports_station (polling_station),
    INDEX idx_reports_reporter (reporter),
    INDEX idx_reports_severity (severity)
);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Migrations list all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "add_last_crowd_level_update_index",
		Up: `
			SET @dbname = DATABASE();
			SET @preparedStatement = (SELECT IF(
				(SELECT COUNT(*) FROM INFORMATION_SCHEMA.STATISTICS
				WHERE TABLE_SCHEMA = @dbname
				AND TABLE_NAME = 'polling_stations'
				AND INDEX_NAME = 'idx_last_crowd_update') = 0,
				'ALTER TABLE polling_stations ADD INDEX idx_last_crowd_update (last_crowd_level_update);',
				'SELECT 1;'
			));
			PREPARE addIndexIfNotExists FROM @preparedStatement;
			EXECUTE addIndexIfNotExists;
			DEALLOCATE PREPARE addIndexIfNotExists;
		`,
		Down: `
			ALTER TABLE polling_stations DROP INDEX idx_last_crowd_update;
		`,
	},
}

// InitializeSchema creates the database schema and runs migrations
func InitializeSchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// RunMigrations applies all pending database migrations
func RunMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	for _, migration := range Migrations {
		if !applied[migration.Version] {
			log.Printf("Applying migration %d: %s", migration.Version, migration.Name)

			if _, err := db.Exec(migration.Up); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
			}

			if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
			}

			log.Printf("Migration %d applied successfully", migration.Version)
		}
	}

	return nil
}
