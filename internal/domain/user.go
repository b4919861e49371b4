// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an account holder and the head of their points ledger.
//
// The bank_* columns are a legacy single-payout-method shortcut predating the
// withdraw_methods table; reads fold them into the WithdrawMethod list.
type User struct {
	ID               int64           `db:"id" json:"id"`
	Username         string          `db:"username" json:"username"` // Unique username
	Password         string          `db:"password" json:"-"`
	FullName         string          `db:"full_name" json:"fullName"`
	Points           decimal.Decimal `db:"points" json:"points"` // Current balance, NUMERIC(20, 4) in DB, never negative
	WithdrawPassword *string         `db:"withdraw_password" json:"-"`
	BankName         *string         `db:"bank_name" json:"bankName,omitempty"`
	BankAccountName  *string         `db:"bank_account_name" json:"bankAccountName,omitempty"`
	BankAccount      *string         `db:"bank_account" json:"bankAccount,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}

// HasWithdrawPassword reports whether the secondary withdraw credential is set.
func (u *User) HasWithdrawPassword() bool {
	return u.WithdrawPassword != nil && *u.WithdrawPassword != ""
}

// HasLegacyBankAccount reports whether the flat bank fields hold a usable
// payout destination.
func (u *User) HasLegacyBankAccount() bool {
	return u.BankName != nil && *u.BankName != "" &&
		u.BankAccount != nil && *u.BankAccount != ""
}

// NewUser creates a new User instance with a zero balance.
func NewUser(username, password, fullName string) *User {
	now := time.Now().UTC()
	return &User{
		Username:  username,
		Password:  password,
		FullName:  fullName,
		Points:    decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
