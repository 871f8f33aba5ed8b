package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dobbo22/StockTradingApp/internal/models"
)

// handleMarketSearch handles GET /api/market/search?q=<query>&limit=<n>.
func (s *Server) handleMarketSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	results, err := s.app.MarketService.SearchInstruments(r.Context(), query, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Instrument search failed")
		WriteError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	if results == nil {
		results = []models.Instrument{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// handleMarketQuote handles GET /api/market/quote/{symbol}.
func (s *Server) handleMarketQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market/quote/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := s.app.MarketService.GetQuote(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, models.ErrUnknownSymbol) {
			WriteErrorWithCode(w, http.StatusNotFound, "No quote for symbol "+symbol, "unknown_symbol")
			return
		}
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
		WriteErrorWithCode(w, http.StatusBadGateway, "Quote provider unavailable", "provider_unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

// handleMarketSync handles POST /api/market/sync?exchange=<code>. Seeds the
// instrument index from the provider's exchange listing.
func (s *Server) handleMarketSync(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if requireUser(w, r) == nil {
		return
	}

	exchange := r.URL.Query().Get("exchange")
	if exchange == "" {
		exchange = "LSE"
	}

	count, err := s.app.MarketService.SyncInstruments(r.Context(), exchange)
	if err != nil {
		s.logger.Error().Err(err).Str("exchange", exchange).Msg("Instrument sync failed")
		WriteErrorWithCode(w, http.StatusBadGateway, "Instrument sync failed", "provider_unavailable")
		return
	}

	indexed, err := s.app.MarketService.InstrumentCount(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Instrument count failed after sync")
		indexed = count
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exchange": exchange,
		"stored":   count,
		"indexed":  indexed,
	})
}
