// Package badger implements the storage contracts using BadgerHold, an
// embedded key-value store. Each storage area (accounts, ledger, market)
// opens its own database directory.
package badger

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/dobbo22/StockTradingApp/internal/common"
)

// open creates the directory if needed and opens a BadgerHold store there.
func open(logger *common.Logger, path, area string) (*badgerhold.Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s db path %s: %w", area, path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s db at %s: %w", area, path, err)
	}
	logger.Info().Str("path", path).Str("area", area).Msg("Store opened")
	return db, nil
}
