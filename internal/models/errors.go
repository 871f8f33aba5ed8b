package models

import "errors"

// Domain errors surfaced across service boundaries. Handlers map these to
// distinct HTTP statuses so callers can tell validation failures, missing
// data, and hard storage failures apart.
var (
	// ErrLedgerUnavailable means the transaction ledger could not be read.
	// Fatal for a snapshot computation: no partial portfolio is returned.
	ErrLedgerUnavailable = errors.New("transaction ledger unavailable")

	// ErrInsufficientFunds rejects a buy whose cost exceeds available cash.
	ErrInsufficientFunds = errors.New("insufficient cash balance")

	// ErrInsufficientShares rejects a sell larger than the current position.
	ErrInsufficientShares = errors.New("insufficient shares held")

	// ErrUnknownSymbol rejects an order for a symbol not in the instrument index.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrTradeUnsettled means the trade was appended to the ledger but the
	// matching cash adjustment failed. The position is recorded; the cash
	// balance has not moved.
	ErrTradeUnsettled = errors.New("trade recorded but cash not settled")

	// ErrUserNotFound is returned for lookups of unregistered users.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken rejects registration with an already-registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on failed login attempts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
