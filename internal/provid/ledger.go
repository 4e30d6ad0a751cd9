package provid

// Record is one entry in the provenance ledger: the union of a recording's
// resolved URIs, its fingerprint, and the certificate fields issued by the
// authority. Records are immutable once appended; the only mutation is
// whole-record removal by user action.
//
// The identity key is URI (the capture URI). This is a deliberate legacy
// choice, not a content key: two captures of identical bytes get two
// records.
type Record struct {
	URI           string `json:"uri"`
	FileURI       string `json:"fileUri"`
	LibraryURI    string `json:"libraryUri"`
	Hash          string `json:"hash"`
	CertificateID string `json:"certificateId"`
	Timestamp     string `json:"timestamp"`
	DeviceInfo    string `json:"deviceInfo"`
}

// Key returns the record's ledger identity key.
func (r Record) Key() string { return r.URI }

// Ledger is the local, durable, append-mostly list of certificate records.
// Implementations must persist each mutation before returning and must be
// crash-consistent per write. There is exactly one UI actor, so no isolation
// beyond read-modify-write of the full sequence is required.
type Ledger interface {
	// Append inserts the record at the head of the sequence (most-recent-
	// first display order) and persists durably before returning.
	// Returns *PersistenceError on storage failure; in that case the
	// certificate exists at the authority but is not visible locally.
	Append(record Record) error

	// List returns the full sequence, most-recent-first, read fresh from
	// durable storage on every call.
	List() ([]Record, error)

	// Remove deletes the first record whose identity key matches.
	// No-op if absent; calling it twice is not an error. Local-only: the
	// authority's record is never touched.
	Remove(key string) error

	// Close releases the underlying store.
	Close() error
}
