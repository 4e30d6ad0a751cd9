package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hsnkilic/ProofVid/internal/config"
	"github.com/hsnkilic/ProofVid/internal/provid"
)

// NewLedgerFromConfig creates a Ledger implementation based on the ledger
// config type.
func NewLedgerFromConfig(cfg config.LedgerConfig) (provid.Ledger, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryLedger(), nil
	case "leveldb":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("leveldb ledger requires data_dir to be set")
		}
		return NewLevelDBLedger(filepath.Join(cfg.DataDir, "ledger.leveldb"))
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite ledger requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating ledger data dir: %w", err)
		}
		return NewSQLiteLedger(filepath.Join(cfg.DataDir, "ledger.db"))
	default:
		return nil, fmt.Errorf("unknown ledger type: %s", cfg.Type)
	}
}
