package server

import (
	"errors"
	"net/http"

	"github.com/dobbo22/StockTradingApp/internal/models"
)

// handlePortfolio handles GET /api/portfolio. A degraded snapshot (quote
// provider down) is still a 200; only a ledger failure is an error.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	snapshot, err := s.app.PortfolioService.ComputeSnapshot(r.Context(), uc.UserID)
	if err != nil {
		if errors.Is(err, models.ErrLedgerUnavailable) {
			WriteErrorWithCode(w, http.StatusServiceUnavailable, "Transaction ledger unavailable", "ledger_unavailable")
			return
		}
		s.logger.Error().Err(err).Str("user", uc.UserID).Msg("Snapshot computation failed")
		WriteError(w, http.StatusInternalServerError, "Failed to compute portfolio")
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// handleTransactions handles GET /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	txs, err := s.app.TradingService.ListTransactions(r.Context(), uc.UserID)
	if err != nil {
		if errors.Is(err, models.ErrLedgerUnavailable) {
			WriteErrorWithCode(w, http.StatusServiceUnavailable, "Transaction ledger unavailable", "ledger_unavailable")
			return
		}
		s.logger.Error().Err(err).Str("user", uc.UserID).Msg("Transaction list failed")
		WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	if txs == nil {
		txs = []models.Transaction{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}
