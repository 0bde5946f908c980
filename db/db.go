package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/wattwise/usage-engine/internal/model"
)

const onboardingKey = "onboarding_complete"

// SQLiteStore implements the appliance persistence port on sqlite. Every
// save rewrites the full collection, matching the last-write-wins contract.
type SQLiteStore struct {
	db *sql.DB
}

func Open(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: conn}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS appliances (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		power_watts REAL NOT NULL,
		hours_per_day REAL NOT NULL,
		days_per_month REAL NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	return err
}

// LoadAppliances reads the stored collection. Rows with unparseable
// timestamps are skipped rather than failing the whole load.
func (s *SQLiteStore) LoadAppliances() ([]model.Appliance, error) {
	rows, err := s.db.Query(`SELECT id, name, power_watts, hours_per_day, days_per_month, created_at FROM appliances`)
	if err != nil {
		return nil, fmt.Errorf("failed to query appliances: %w", err)
	}
	defer rows.Close()

	var appliances []model.Appliance
	for rows.Next() {
		var a model.Appliance
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Name, &a.PowerWatts, &a.HoursPerDay, &a.DaysPerMonth, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan appliance: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			log.Warn().Str("appliance_id", a.ID).Str("created_at", createdAt).Msg("Skipping appliance with malformed timestamp")
			continue
		}
		a.CreatedAt = ts
		appliances = append(appliances, a)
	}

	return appliances, rows.Err()
}

func (s *SQLiteStore) SaveAppliances(appliances []model.Appliance) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM appliances`); err != nil {
		return fmt.Errorf("failed to clear appliances: %w", err)
	}

	for _, a := range appliances {
		_, err := tx.Exec(`INSERT INTO appliances (id, name, power_watts, hours_per_day, days_per_month, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.PowerWatts, a.HoursPerDay, a.DaysPerMonth, a.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to insert appliance %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadOnboarding() (bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, onboardingKey).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read onboarding flag: %w", err)
	}
	return value == "true", nil
}

func (s *SQLiteStore) SaveOnboarding(complete bool) error {
	value := "false"
	if complete {
		value = "true"
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, onboardingKey, value)
	if err != nil {
		return fmt.Errorf("failed to write onboarding flag: %w", err)
	}
	return nil
}
