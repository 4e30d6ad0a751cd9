// Package ledger provides durable stores for the provenance ledger.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hsnkilic/ProofVid/internal/ledger/migrations"
	"github.com/hsnkilic/ProofVid/internal/provid"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteLedger implements provid.Ledger using SQLite. Records are ordered
// by an autoincrement sequence; List reads descending so the newest append
// is the head. Each mutation is a single transaction, which gives the
// crash-consistency-per-write the ledger requires.
type SQLiteLedger struct {
	db   *sql.DB
	path string
}

// NewSQLiteLedger opens (or creates) the ledger database at path and
// applies pending migrations. path can be ":memory:" for tests.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating ledger database: %w", err)
	}

	return &SQLiteLedger{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tests that need a raw, properly configured handle.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward
	// compatibility).
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Append inserts the record; the autoincrement sequence makes it the head
// of the most-recent-first order.
func (l *SQLiteLedger) Append(record provid.Record) error {
	_, err := l.db.Exec(`
		INSERT INTO records (uri, file_uri, library_uri, hash, certificate_id, timestamp, device_info)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.URI, record.FileURI, record.LibraryURI, record.Hash,
		record.CertificateID, record.Timestamp, record.DeviceInfo)
	if err != nil {
		return &provid.PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// List returns all records, most-recent-first, read fresh from storage.
func (l *SQLiteLedger) List() ([]provid.Record, error) {
	rows, err := l.db.Query(`
		SELECT uri, file_uri, library_uri, hash, certificate_id, timestamp, device_info
		FROM records ORDER BY seq DESC`)
	if err != nil {
		return nil, &provid.PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()

	var records []provid.Record
	for rows.Next() {
		var r provid.Record
		if err := rows.Scan(&r.URI, &r.FileURI, &r.LibraryURI, &r.Hash,
			&r.CertificateID, &r.Timestamp, &r.DeviceInfo); err != nil {
			return nil, &provid.PersistenceError{Op: "list", Err: err}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &provid.PersistenceError{Op: "list", Err: err}
	}
	return records, nil
}

// Remove deletes the first record in iteration order (the newest) whose
// identity key matches. No-op when absent.
func (l *SQLiteLedger) Remove(key string) error {
	var seq int64
	err := l.db.QueryRow(`SELECT seq FROM records WHERE uri = ? ORDER BY seq DESC LIMIT 1`, key).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return &provid.PersistenceError{Op: "remove", Err: err}
	}

	if _, err := l.db.Exec(`DELETE FROM records WHERE seq = ?`, seq); err != nil {
		return &provid.PersistenceError{Op: "remove", Err: err}
	}
	return nil
}

// Close closes the database connection.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// Compile-time check that SQLiteLedger implements provid.Ledger.
var _ provid.Ledger = (*SQLiteLedger)(nil)
