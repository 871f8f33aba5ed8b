package server

import (
	"errors"
	"net/http"

	"github.com/dobbo22/StockTradingApp/internal/models"
)

type tradeRequest struct {
	Symbol   string  `json:"symbol"`
	Kind     string  `json:"kind"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// handleTradeCreate handles POST /api/trades.
func (s *Server) handleTradeCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tx, err := s.app.TradingService.PlaceOrder(r.Context(), uc.UserID, req.Symbol, models.TradeKind(req.Kind), req.Quantity, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInsufficientFunds):
			WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "insufficient_funds")
		case errors.Is(err, models.ErrInsufficientShares):
			WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "insufficient_shares")
		case errors.Is(err, models.ErrUnknownSymbol):
			WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "unknown_symbol")
		case errors.Is(err, models.ErrLedgerUnavailable):
			WriteErrorWithCode(w, http.StatusServiceUnavailable, "Transaction ledger unavailable", "ledger_unavailable")
		case errors.Is(err, models.ErrTradeUnsettled):
			s.logger.Error().Err(err).Str("user", uc.UserID).Msg("Trade recorded but unsettled")
			WriteErrorWithCode(w, http.StatusInternalServerError, err.Error(), "trade_unsettled")
		default:
			WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	WriteJSON(w, http.StatusCreated, tx)
}
