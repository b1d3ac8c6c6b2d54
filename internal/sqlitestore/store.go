// Package sqlitestore is a single-file SQLite implementation of the importer
// store, for local runs and for trying a batch without a PostgreSQL server.
package sqlitestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/jonathan/corpus-merge/internal/importer"
)

var _ importer.Store = (*Store)(nil)

const dateLayout = "2006-01-02"

// Store wraps a SQLite database connection.
type Store struct {
	conn *sql.DB
	path string
	log  zerolog.Logger
}

// Open creates or opens a SQLite database at the given path and brings its
// schema up to date.
func Open(dbPath string, log zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps concurrent workers
	// from tripping over SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, path: dbPath, log: log}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
