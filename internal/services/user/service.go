// Package user manages account registration, login, and lookup.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

const minPasswordLength = 8

// Service implements UserService. New accounts are granted the configured
// opening cash balance.
type Service struct {
	storage     interfaces.StorageManager
	openingCash float64
	logger      *common.Logger
}

// NewService creates a new user service.
func NewService(storage interfaces.StorageManager, cfg common.TradingConfig, logger *common.Logger) *Service {
	return &Service{
		storage:     storage,
		openingCash: cfg.OpeningCashBalance,
		logger:      logger,
	}
}

// Register creates an account and funds it with the opening balance.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email address is required")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}

	if _, err := s.storage.AccountStore().GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrEmailTaken, email)
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		UserID:       uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CashBalance:  s.openingCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.AccountStore().SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info().
		Str("user", user.UserID).
		Str("email", email).
		Float64("opening_cash", s.openingCash).
		Msg("User registered")

	return user, nil
}

// Authenticate checks credentials and returns the user on success. It never
// reveals whether the email or the password was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.storage.AccountStore().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up %s: %w", email, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser returns the account for a user ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.storage.AccountStore().GetUser(ctx, userID)
}

// Ensure Service implements UserService
var _ interfaces.UserService = (*Service)(nil)
