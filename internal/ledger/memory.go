package ledger

import (
	"sync"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// MemoryLedger is an in-memory implementation of provid.Ledger. Nothing
// survives the process, making it useful for tests and dry runs. Safe for
// concurrent use.
type MemoryLedger struct {
	mu      sync.Mutex
	records []provid.Record
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Append inserts the record at the head of the list.
func (l *MemoryLedger) Append(record provid.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]provid.Record{record}, l.records...)
	return nil
}

// List returns a copy of all records, most-recent-first.
func (l *MemoryLedger) List() ([]provid.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]provid.Record, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Remove deletes the first record whose identity key matches.
func (l *MemoryLedger) Remove(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.records {
		if r.Key() == key {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// Close is a no-op for the in-memory ledger.
func (l *MemoryLedger) Close() error { return nil }

// Compile-time check that MemoryLedger implements provid.Ledger.
var _ provid.Ledger = (*MemoryLedger)(nil)
