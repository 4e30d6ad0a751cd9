package ledger

import (
	"path/filepath"
	"testing"

	"github.com/hsnkilic/ProofVid/internal/config"
	"github.com/hsnkilic/ProofVid/internal/provid"
)

func configFor(typ, dataDir string) config.LedgerConfig {
	return config.LedgerConfig{Type: typ, DataDir: dataDir}
}

func record(uri, certID string) provid.Record {
	return provid.Record{
		URI:           uri,
		FileURI:       uri,
		LibraryURI:    uri,
		Hash:          "0000000000000000000000000000000000000000000000000000000000000000",
		CertificateID: certID,
		Timestamp:     "2024-01-15T10:30:00Z",
		DeviceInfo:    "test device",
	}
}

// ledgerTests runs the behavioral contract against a fresh ledger from open.
func ledgerTests(t *testing.T, open func(t *testing.T) provid.Ledger) {
	t.Run("list is most-recent-first", func(t *testing.T) {
		led := open(t)

		for _, r := range []provid.Record{
			record("/captures/1.mp4", "cert-1"),
			record("/captures/2.mp4", "cert-2"),
			record("/captures/3.mp4", "cert-3"),
		} {
			if err := led.Append(r); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
		}

		records, err := led.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("List() returned %d records, want 3", len(records))
		}
		for i, want := range []string{"cert-3", "cert-2", "cert-1"} {
			if records[i].CertificateID != want {
				t.Errorf("records[%d].CertificateID = %q, want %q", i, records[i].CertificateID, want)
			}
		}
	})

	t.Run("empty ledger lists no records", func(t *testing.T) {
		led := open(t)

		records, err := led.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 0 {
			t.Errorf("List() returned %d records, want 0", len(records))
		}
	})

	t.Run("append round-trips all fields", func(t *testing.T) {
		led := open(t)

		want := provid.Record{
			URI:           "/captures/a.mp4",
			FileURI:       "file:///captures/a.mp4",
			LibraryURI:    "s3://bucket/a.mp4",
			Hash:          "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
			CertificateID: "cert-42",
			Timestamp:     "2024-01-15T10:30:00Z",
			DeviceInfo:    "ios 26.0",
		}
		if err := led.Append(want); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		records, err := led.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("List() returned %d records, want 1", len(records))
		}
		if records[0] != want {
			t.Errorf("record = %+v, want %+v", records[0], want)
		}
	})

	t.Run("remove deletes by key and is idempotent", func(t *testing.T) {
		led := open(t)

		led.Append(record("/captures/1.mp4", "cert-1"))
		led.Append(record("/captures/2.mp4", "cert-2"))

		if err := led.Remove("/captures/1.mp4"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if err := led.Remove("/captures/1.mp4"); err != nil {
			t.Fatalf("second Remove() error = %v, want no-op", err)
		}
		if err := led.Remove("/captures/never-existed.mp4"); err != nil {
			t.Fatalf("Remove() of absent key error = %v, want no-op", err)
		}

		records, _ := led.List()
		if len(records) != 1 || records[0].CertificateID != "cert-2" {
			t.Errorf("records after remove = %+v", records)
		}
	})

	t.Run("remove deletes only the newest duplicate", func(t *testing.T) {
		led := open(t)

		led.Append(record("/captures/same.mp4", "cert-1"))
		led.Append(record("/captures/same.mp4", "cert-2"))

		if err := led.Remove("/captures/same.mp4"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}

		records, _ := led.List()
		if len(records) != 1 || records[0].CertificateID != "cert-1" {
			t.Errorf("records after remove = %+v, want only cert-1", records)
		}
	})
}

func TestMemoryLedger(t *testing.T) {
	ledgerTests(t, func(t *testing.T) provid.Ledger {
		led := NewMemoryLedger()
		t.Cleanup(func() { led.Close() })
		return led
	})
}

func TestSQLiteLedger(t *testing.T) {
	ledgerTests(t, func(t *testing.T) provid.Ledger {
		led, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"))
		if err != nil {
			t.Fatalf("NewSQLiteLedger() error = %v", err)
		}
		t.Cleanup(func() { led.Close() })
		return led
	})

	t.Run("records survive reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")

		led, err := NewSQLiteLedger(path)
		if err != nil {
			t.Fatalf("NewSQLiteLedger() error = %v", err)
		}
		if err := led.Append(record("/captures/1.mp4", "cert-1")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := led.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		reopened, err := NewSQLiteLedger(path)
		if err != nil {
			t.Fatalf("reopening ledger: %v", err)
		}
		defer reopened.Close()

		records, err := reopened.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 1 || records[0].CertificateID != "cert-1" {
			t.Errorf("records after reopen = %+v", records)
		}
	})
}

func TestLevelDBLedger(t *testing.T) {
	ledgerTests(t, func(t *testing.T) provid.Ledger {
		led, err := NewLevelDBLedger(filepath.Join(t.TempDir(), "ledger.leveldb"))
		if err != nil {
			t.Fatalf("NewLevelDBLedger() error = %v", err)
		}
		t.Cleanup(func() { led.Close() })
		return led
	})

	t.Run("records survive reopen", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "ledger.leveldb")

		led, err := NewLevelDBLedger(dir)
		if err != nil {
			t.Fatalf("NewLevelDBLedger() error = %v", err)
		}
		if err := led.Append(record("/captures/1.mp4", "cert-1")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := led.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		reopened, err := NewLevelDBLedger(dir)
		if err != nil {
			t.Fatalf("reopening ledger: %v", err)
		}
		defer reopened.Close()

		records, err := reopened.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 1 || records[0].CertificateID != "cert-1" {
			t.Errorf("records after reopen = %+v", records)
		}
	})
}

func TestNewLedgerFromConfig(t *testing.T) {
	t.Run("unknown type is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := NewLedgerFromConfig(configFor("postgres", "")); err == nil {
			t.Error("expected error for unknown ledger type")
		}
	})

	t.Run("sqlite and leveldb require a data dir", func(t *testing.T) {
		t.Parallel()

		for _, typ := range []string{"sqlite", "leveldb"} {
			if _, err := NewLedgerFromConfig(configFor(typ, "")); err == nil {
				t.Errorf("expected error for %s without data_dir", typ)
			}
		}
	})

	t.Run("builds each configured backend", func(t *testing.T) {
		t.Parallel()

		for _, typ := range []string{"memory", "sqlite", "leveldb"} {
			led, err := NewLedgerFromConfig(configFor(typ, t.TempDir()))
			if err != nil {
				t.Fatalf("NewLedgerFromConfig(%s) error = %v", typ, err)
			}
			led.Close()
		}
	})
}
