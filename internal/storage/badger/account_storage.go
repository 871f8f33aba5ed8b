package badger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// AccountStore implements interfaces.AccountStore using BadgerHold.
type AccountStore struct {
	db     *badgerhold.Store
	logger *common.Logger

	// cashMu serialises read-modify-write cash adjustments.
	cashMu sync.Mutex
}

// NewAccountStore opens the account store at the given path.
func NewAccountStore(logger *common.Logger, path string) (*AccountStore, error) {
	db, err := open(logger, path, "accounts")
	if err != nil {
		return nil, err
	}
	return &AccountStore{db: db, logger: logger}, nil
}

// GetUser returns the account for a user ID.
func (s *AccountStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Get(userID, &user); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return &user, nil
}

// GetUserByEmail returns the account registered under an email address.
func (s *AccountStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var users []models.User
	if err := s.db.Find(&users, badgerhold.Where("Email").Eq(email)); err != nil {
		return nil, fmt.Errorf("failed to look up email '%s': %w", email, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, email)
	}
	return &users[0], nil
}

// SaveUser inserts or updates a user record.
func (s *AccountStore) SaveUser(_ context.Context, user *models.User) error {
	if user.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	now := time.Now().UTC()
	var existing models.User
	if err := s.db.Get(user.UserID, &existing); err == nil {
		user.CreatedAt = existing.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if err := s.db.Upsert(user.UserID, user); err != nil {
		return fmt.Errorf("failed to save user '%s': %w", user.UserID, err)
	}
	s.logger.Debug().Str("user_id", user.UserID).Msg("User saved")
	return nil
}

// GetCashBalance returns the user's current virtual cash.
func (s *AccountStore) GetCashBalance(ctx context.Context, userID string) (float64, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.CashBalance, nil
}

// AdjustCashBalance applies a signed delta to the user's cash, rejecting
// adjustments that would take the balance below zero.
func (s *AccountStore) AdjustCashBalance(ctx context.Context, userID string, delta float64) (float64, error) {
	s.cashMu.Lock()
	defer s.cashMu.Unlock()

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	next := user.CashBalance + delta
	if next < 0 {
		return user.CashBalance, fmt.Errorf("%w: balance %.2f, adjustment %.2f", models.ErrInsufficientFunds, user.CashBalance, delta)
	}

	user.CashBalance = next
	user.UpdatedAt = time.Now().UTC()
	if err := s.db.Upsert(user.UserID, user); err != nil {
		return 0, fmt.Errorf("failed to update balance for '%s': %w", userID, err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Float64("delta", delta).
		Float64("balance", next).
		Msg("Cash balance adjusted")

	return next, nil
}

// Close closes the underlying database.
func (s *AccountStore) Close() error {
	return s.db.Close()
}

// Ensure AccountStore implements the interface
var _ interfaces.AccountStore = (*AccountStore)(nil)
