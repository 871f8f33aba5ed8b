package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/timshannon/badgerhold/v4"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// InstrumentStore implements interfaces.InstrumentStore using BadgerHold.
type InstrumentStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewInstrumentStore opens the instrument index at the given path.
func NewInstrumentStore(logger *common.Logger, path string) (*InstrumentStore, error) {
	db, err := open(logger, path, "market")
	if err != nil {
		return nil, err
	}
	return &InstrumentStore{db: db, logger: logger}, nil
}

// Upsert inserts or replaces an instrument, keyed by symbol.
func (s *InstrumentStore) Upsert(_ context.Context, inst *models.Instrument) error {
	if inst.Symbol == "" {
		return fmt.Errorf("instrument symbol is required")
	}
	if err := s.db.Upsert(inst.Symbol, inst); err != nil {
		return fmt.Errorf("failed to upsert instrument '%s': %w", inst.Symbol, err)
	}
	return nil
}

// Get returns one instrument by its canonical symbol.
func (s *InstrumentStore) Get(_ context.Context, symbol string) (*models.Instrument, error) {
	var inst models.Instrument
	if err := s.db.Get(symbol, &inst); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, symbol)
		}
		return nil, fmt.Errorf("failed to get instrument '%s': %w", symbol, err)
	}
	return &inst, nil
}

// Search finds instruments whose symbol or name starts with the query,
// case-insensitively, up to limit results ordered by symbol.
func (s *InstrumentStore) Search(_ context.Context, query string, limit int) ([]models.Instrument, error) {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil, nil
	}

	var matches []models.Instrument
	err := s.db.Find(&matches, badgerhold.Where("Symbol").MatchFunc(func(ra *badgerhold.RecordAccess) (bool, error) {
		inst, ok := ra.Record().(*models.Instrument)
		if !ok {
			return false, nil
		}
		return strings.HasPrefix(strings.ToUpper(inst.Symbol), q) ||
			strings.HasPrefix(strings.ToUpper(inst.Name), q), nil
	}))
	if err != nil {
		return nil, fmt.Errorf("instrument search '%s' failed: %w", query, err)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Symbol < matches[j].Symbol })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Count returns the number of indexed instruments.
func (s *InstrumentStore) Count(_ context.Context) (int, error) {
	n, err := s.db.Count(&models.Instrument{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count instruments: %w", err)
	}
	return int(n), nil
}

// Close closes the underlying database.
func (s *InstrumentStore) Close() error {
	return s.db.Close()
}

// Ensure InstrumentStore implements the interface
var _ interfaces.InstrumentStore = (*InstrumentStore)(nil)
