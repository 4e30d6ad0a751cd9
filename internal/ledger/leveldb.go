package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// recordsKey is the single well-known key the full record list lives under,
// stored most-recent-first as a JSON array.
const recordsKey = "recordings"

// LevelDBLedger implements provid.Ledger on goleveldb. The whole sequence
// is rewritten on every mutation with a synced write, so a kill mid-write
// leaves either the old or the new list, never a torn one. With a single UI
// actor the read-modify-write cycle needs no further isolation.
type LevelDBLedger struct {
	db *leveldb.DB
}

// syncWrite forces each mutation to disk before returning.
var syncWrite = &opt.WriteOptions{Sync: true}

// NewLevelDBLedger opens (or creates) the ledger database in dir.
func NewLevelDBLedger(dir string) (*LevelDBLedger, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("opening leveldb ledger at %s: %w", dir, err)
	}
	return &LevelDBLedger{db: db}, nil
}

// Append inserts the record at the head of the list and persists it.
func (l *LevelDBLedger) Append(record provid.Record) error {
	records, err := l.load()
	if err != nil {
		return &provid.PersistenceError{Op: "append", Err: err}
	}

	records = append([]provid.Record{record}, records...)
	if err := l.store(records); err != nil {
		return &provid.PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// List returns all records, most-recent-first, read fresh from storage.
func (l *LevelDBLedger) List() ([]provid.Record, error) {
	records, err := l.load()
	if err != nil {
		return nil, &provid.PersistenceError{Op: "list", Err: err}
	}
	return records, nil
}

// Remove deletes the first record whose identity key matches. Records with
// a duplicate key (which should not occur under normal flow) remain.
func (l *LevelDBLedger) Remove(key string) error {
	records, err := l.load()
	if err != nil {
		return &provid.PersistenceError{Op: "remove", Err: err}
	}

	for i, r := range records {
		if r.Key() == key {
			records = append(records[:i], records[i+1:]...)
			if err := l.store(records); err != nil {
				return &provid.PersistenceError{Op: "remove", Err: err}
			}
			return nil
		}
	}
	// Absent: no-op, not an error.
	return nil
}

// Close closes the database.
func (l *LevelDBLedger) Close() error {
	return l.db.Close()
}

func (l *LevelDBLedger) load() ([]provid.Record, error) {
	data, err := l.db.Get([]byte(recordsKey), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading record list: %w", err)
	}

	var records []provid.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding record list: %w", err)
	}
	return records, nil
}

func (l *LevelDBLedger) store(records []provid.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding record list: %w", err)
	}
	if err := l.db.Put([]byte(recordsKey), data, syncWrite); err != nil {
		return fmt.Errorf("writing record list: %w", err)
	}
	return nil
}

// Compile-time check that LevelDBLedger implements provid.Ledger.
var _ provid.Ledger = (*LevelDBLedger)(nil)
