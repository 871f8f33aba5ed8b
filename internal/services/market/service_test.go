package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

type fakeProvider struct {
	quotes      map[string]models.Quote
	instruments []models.Instrument
	err         error
}

func (f *fakeProvider) GetQuotes(_ context.Context, symbols []string) (map[string]models.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]models.Quote{}
	for _, s := range symbols {
		if q, ok := f.quotes[s]; ok {
			out[s] = q
		}
	}
	return out, nil
}

func (f *fakeProvider) GetExchangeSymbols(context.Context, string) ([]models.Instrument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.instruments, nil
}

type fakeInstrumentStore struct {
	instruments map[string]models.Instrument
	upsertErr   error
}

func (f *fakeInstrumentStore) Upsert(_ context.Context, inst *models.Instrument) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.instruments[inst.Symbol] = *inst
	return nil
}

func (f *fakeInstrumentStore) Get(_ context.Context, symbol string) (*models.Instrument, error) {
	inst, ok := f.instruments[symbol]
	if !ok {
		return nil, models.ErrUnknownSymbol
	}
	return &inst, nil
}

func (f *fakeInstrumentStore) Search(_ context.Context, query string, limit int) ([]models.Instrument, error) {
	var out []models.Instrument
	for _, inst := range f.instruments {
		if len(out) >= limit {
			break
		}
		out = append(out, inst)
	}
	return out, nil
}

func (f *fakeInstrumentStore) Count(context.Context) (int, error) { return len(f.instruments), nil }
func (f *fakeInstrumentStore) Close() error                       { return nil }

type fakeStorage struct {
	instruments *fakeInstrumentStore
}

func (f *fakeStorage) LedgerStore() interfaces.LedgerStore         { return nil }
func (f *fakeStorage) AccountStore() interfaces.AccountStore       { return nil }
func (f *fakeStorage) InstrumentStore() interfaces.InstrumentStore { return f.instruments }
func (f *fakeStorage) Close() error                                { return nil }

func newTestService(provider *fakeProvider) (*Service, *fakeStorage) {
	storage := &fakeStorage{instruments: &fakeInstrumentStore{instruments: map[string]models.Instrument{}}}
	cfg := common.QuotesConfig{BaseCurrency: "GBP", MinorUnitCodes: []string{"GBX", "GBp"}}
	return NewService(storage, provider, cfg, common.NewSilentLogger()), storage
}

func TestGetQuote_NormalizesPence(t *testing.T) {
	provider := &fakeProvider{quotes: map[string]models.Quote{
		"BARC.L": {Symbol: "BARC.L", Price: 215.75, Currency: "GBX"},
	}}
	svc, _ := newTestService(provider)

	quote, err := svc.GetQuote(context.Background(), "barc")
	require.NoError(t, err)

	assert.Equal(t, "BARC.L", quote.Symbol)
	assert.InDelta(t, 2.1575, quote.Price, 1e-9)
	assert.Equal(t, "GBP", quote.Currency)
}

func TestGetQuote_UnknownSymbol(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{})

	_, err := svc.GetQuote(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownSymbol))
}

func TestGetQuote_BareTickerResponseKey(t *testing.T) {
	provider := &fakeProvider{quotes: map[string]models.Quote{
		"BARC": {Symbol: "BARC", Price: 2.20, Currency: "GBP"},
	}}
	svc, _ := newTestService(provider)

	quote, err := svc.GetQuote(context.Background(), "BARC.L")
	require.NoError(t, err)
	assert.Equal(t, "BARC.L", quote.Symbol, "response keyed by bare ticker still resolves")
	assert.InDelta(t, 2.20, quote.Price, 1e-9)
}

func TestSearchInstruments_RequiresQuery(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{})

	_, err := svc.SearchInstruments(context.Background(), "   ", 10)
	assert.Error(t, err)
}

func TestSyncInstruments_StoresCanonicalSymbols(t *testing.T) {
	provider := &fakeProvider{instruments: []models.Instrument{
		{Symbol: "BARC", Name: "Barclays PLC", Exchange: "LSE", Currency: "GBX"},
		{Symbol: "VOD.L", Name: "Vodafone Group", Exchange: "LSE", Currency: "GBX"},
		{Symbol: "", Name: "broken row"},
	}}
	svc, storage := newTestService(provider)

	stored, err := svc.SyncInstruments(context.Background(), "LSE")
	require.NoError(t, err)

	assert.Equal(t, 2, stored)
	_, ok := storage.instruments.instruments["BARC.L"]
	assert.True(t, ok, "bare tickers gain the exchange suffix on sync")
	_, ok = storage.instruments.instruments["VOD.L"]
	assert.True(t, ok)
}

func TestInstrumentCount_ReflectsSyncedIndex(t *testing.T) {
	provider := &fakeProvider{instruments: []models.Instrument{
		{Symbol: "BARC", Name: "Barclays PLC", Exchange: "LSE", Currency: "GBX"},
		{Symbol: "VOD.L", Name: "Vodafone Group", Exchange: "LSE", Currency: "GBX"},
	}}
	svc, _ := newTestService(provider)

	count, err := svc.InstrumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = svc.SyncInstruments(context.Background(), "LSE")
	require.NoError(t, err)

	count, err = svc.InstrumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSyncInstruments_ProviderFailure(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{err: errors.New("provider 502")})

	_, err := svc.SyncInstruments(context.Background(), "LSE")
	assert.Error(t, err)
}
