package sqlitestore

import (
	"database/sql"
	"fmt"
)

// migration is a single schema step. Versions are tracked in PRAGMA
// user_version.
type migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// Append new migrations to the end with incrementing versions.
var migrations = []migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS clusters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    court_id TEXT NOT NULL DEFAULT '',
    needs_court_assignment INTEGER NOT NULL DEFAULT 0,
    case_name TEXT NOT NULL DEFAULT '',
    case_name_short TEXT NOT NULL DEFAULT '',
    case_name_full TEXT NOT NULL DEFAULT '',
    docket_number TEXT NOT NULL DEFAULT '',
    date_filed TEXT NOT NULL,
    date_granularity TEXT NOT NULL DEFAULT 'day',
    judges TEXT NOT NULL DEFAULT '',
    attorneys TEXT NOT NULL DEFAULT '',
    syllabus TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL DEFAULT '',
    disposition TEXT NOT NULL DEFAULT '',
    headnotes TEXT NOT NULL DEFAULT '',
    history TEXT NOT NULL DEFAULT '',
    other_dates TEXT NOT NULL DEFAULT '',
    citations TEXT NOT NULL DEFAULT '[]',
    source_key TEXT NOT NULL DEFAULT '',
    created_at TEXT DEFAULT (datetime('now')),
    updated_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_clusters_court_date ON clusters (court_id, date_filed);
CREATE INDEX IF NOT EXISTS idx_clusters_docket ON clusters (docket_number COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS opinions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cluster_id INTEGER NOT NULL REFERENCES clusters(id) ON DELETE CASCADE,
    ordering INTEGER NOT NULL DEFAULT 0,
    type TEXT NOT NULL,
    author_str TEXT NOT NULL DEFAULT '',
    per_curiam INTEGER NOT NULL DEFAULT 0,
    plain_text TEXT NOT NULL DEFAULT '',
    html TEXT NOT NULL DEFAULT '',
    xml_harvard TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_opinions_cluster ON opinions (cluster_id, ordering);

CREATE TABLE IF NOT EXISTS pending_reviews (
    id TEXT PRIMARY KEY,
    cluster_id INTEGER REFERENCES clusters(id) ON DELETE CASCADE,
    kind TEXT NOT NULL,
    source_key TEXT NOT NULL DEFAULT '',
    diffs TEXT NOT NULL DEFAULT '[]',
    candidates TEXT NOT NULL DEFAULT '[]',
    fingerprint TEXT NOT NULL UNIQUE,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS search_index_queue (
    cluster_id INTEGER PRIMARY KEY REFERENCES clusters(id) ON DELETE CASCADE,
    enqueued_at TEXT DEFAULT (datetime('now'))
);
`)
			return err
		},
	},
}

func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}

// getSchemaVersion reads PRAGMA user_version from the database.
func getSchemaVersion(conn *sql.DB) (int, error) {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// migrate brings the database schema up to the latest version.
func (s *Store) migrate() error {
	current, err := getSchemaVersion(s.conn)
	if err != nil {
		return err
	}
	if current >= latestVersion() {
		return nil
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		s.log.Info().Int("version", m.Version).Str("description", m.Description).Msg("applying migration")

		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		// Set outside the transaction; the DDL is idempotent if we stop here.
		if _, err := s.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			return fmt.Errorf("failed to set version %d: %w", m.Version, err)
		}
	}
	return nil
}
