package models

import "time"

// User is a registered account with a virtual cash balance.
type User struct {
	UserID       string    `json:"user_id" badgerhold:"key"`
	Email        string    `json:"email" badgerhold:"unique"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CashBalance  float64   `json:"cash_balance"` // GBP
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
