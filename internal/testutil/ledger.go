package testutil

import (
	"path/filepath"
	"testing"

	"github.com/hsnkilic/ProofVid/internal/ledger"
	"github.com/hsnkilic/ProofVid/internal/provid"
)

// NewTestLedger creates a SQLite ledger in a test temp dir with the schema
// applied. The ledger is automatically closed when the test completes.
func NewTestLedger(t *testing.T) provid.Ledger {
	t.Helper()

	led, err := ledger.NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}

	t.Cleanup(func() {
		led.Close()
	})

	return led
}
