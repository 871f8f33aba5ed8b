package portfolio

import (
	"context"
	"sync"

	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// mockStorage wires the three store fakes behind the StorageManager contract.
type mockStorage struct {
	ledger      *mockLedgerStore
	accounts    *mockAccountStore
	instruments *mockInstrumentStore
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		ledger:      &mockLedgerStore{},
		accounts:    &mockAccountStore{balances: map[string]float64{}},
		instruments: &mockInstrumentStore{instruments: map[string]models.Instrument{}},
	}
}

func (m *mockStorage) LedgerStore() interfaces.LedgerStore         { return m.ledger }
func (m *mockStorage) AccountStore() interfaces.AccountStore       { return m.accounts }
func (m *mockStorage) InstrumentStore() interfaces.InstrumentStore { return m.instruments }
func (m *mockStorage) Close() error                                { return nil }

type mockLedgerStore struct {
	mu  sync.Mutex
	txs []models.Transaction
	err error
}

func (m *mockLedgerStore) GetTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Transaction
	for _, tx := range m.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *mockLedgerStore) AppendTransaction(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.Sequence = int64(len(m.txs) + 1)
	m.txs = append(m.txs, *tx)
	return nil
}

func (m *mockLedgerStore) Close() error { return nil }

type mockAccountStore struct {
	mu       sync.Mutex
	users    []models.User
	balances map[string]float64
	err      error
}

func (m *mockAccountStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].UserID == userID {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockAccountStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockAccountStore) SaveUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].UserID == user.UserID {
			m.users[i] = *user
			return nil
		}
	}
	m.users = append(m.users, *user)
	m.balances[user.UserID] = user.CashBalance
	return nil
}

func (m *mockAccountStore) GetCashBalance(_ context.Context, userID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.balances[userID], nil
}

func (m *mockAccountStore) AdjustCashBalance(_ context.Context, userID string, delta float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.balances[userID] + delta
	if next < 0 {
		return m.balances[userID], models.ErrInsufficientFunds
	}
	m.balances[userID] = next
	return next, nil
}

func (m *mockAccountStore) Close() error { return nil }

type mockInstrumentStore struct {
	mu          sync.Mutex
	instruments map[string]models.Instrument
}

func (m *mockInstrumentStore) Upsert(_ context.Context, inst *models.Instrument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instruments[inst.Symbol] = *inst
	return nil
}

func (m *mockInstrumentStore) Get(_ context.Context, symbol string) (*models.Instrument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instruments[symbol]
	if !ok {
		return nil, models.ErrUnknownSymbol
	}
	return &inst, nil
}

func (m *mockInstrumentStore) Search(_ context.Context, _ string, _ int) ([]models.Instrument, error) {
	return nil, nil
}

func (m *mockInstrumentStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instruments), nil
}

func (m *mockInstrumentStore) Close() error { return nil }

// mockQuoteProvider returns canned quotes, or fails every call when err is set.
type mockQuoteProvider struct {
	mu     sync.Mutex
	quotes map[string]models.Quote
	err    error
	calls  int
}

func (m *mockQuoteProvider) GetQuotes(_ context.Context, symbols []string) (map[string]models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]models.Quote, len(symbols))
	for _, s := range symbols {
		if q, ok := m.quotes[s]; ok {
			out[s] = q
		}
	}
	return out, nil
}

func (m *mockQuoteProvider) GetExchangeSymbols(_ context.Context, _ string) ([]models.Instrument, error) {
	return nil, nil
}

func (m *mockQuoteProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
