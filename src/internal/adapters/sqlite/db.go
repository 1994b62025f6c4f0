package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Open opens a read-write SQLite database. busy_timeout keeps concurrent
// readers from failing immediately while the single writer holds the lock.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", path))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenReadOnly opens a SQLite database in read-only mode. Fails if the file
// does not already exist, which is exactly what we want for the catalog.
func OpenReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// uniqueViolationColumn extracts the "table.column" the driver reports for a
// UNIQUE failure, e.g. "accounts.username". Empty string if err is not one.
func uniqueViolationColumn(err error) string {
	if !isUniqueViolation(err) {
		return ""
	}
	msg := err.Error()
	const marker = "UNIQUE constraint failed: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	col := msg[i+len(marker):]
	// On a multi-column constraint the driver lists all columns; the first
	// one is enough for attribution here.
	if j := strings.IndexAny(col, ", "); j >= 0 {
		col = col[:j]
	}
	return col
}
