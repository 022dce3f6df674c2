package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSink stores the table in a SQLite database. Replace deletes and
// re-inserts every row in one transaction, so readers see either the old or
// the new table.
type SQLiteSink struct {
	db    *sqlx.DB
	table string
}

// OpenSQLite opens (or creates) the database at path and ensures the table
// exists
func OpenSQLite(path, table string) (*SQLiteSink, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + table + ` (
		position INTEGER PRIMARY KEY,
		family TEXT NOT NULL,
		feature_name TEXT NOT NULL,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s table: %w", table, err)
	}
	return &SQLiteSink{db: db, table: table}, nil
}

// Replace swaps the table content for rows
func (s *SQLiteSink) Replace(rows []Row) (retErr error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`DELETE FROM ` + s.table); err != nil {
		return fmt.Errorf("clear %s: %w", s.table, err)
	}
	stmt, err := tx.Preparex(`INSERT INTO ` + s.table + ` (position, family, feature_name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range rows {
		if _, err := stmt.Exec(i, r.Family, r.FeatureName, r.Value); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Rows reads the table back in row order
func (s *SQLiteSink) Rows() ([]Row, error) {
	var rows []Row
	if err := s.db.Select(&rows, `SELECT family, feature_name, value FROM `+s.table+` ORDER BY position`); err != nil {
		return nil, fmt.Errorf("select %s: %w", s.table, err)
	}
	return rows, nil
}

// Close releases the database
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
