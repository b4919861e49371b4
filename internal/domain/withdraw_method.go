// internal/domain/withdraw_method.go
package domain

import "time"

// WithdrawMethod is a payout destination owned by a user.
type WithdrawMethod struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"userId"`
	BankName      string    `db:"bank_name" json:"bankName"`
	AccountName   string    `db:"account_name" json:"accountName"`
	AccountNumber string    `db:"account_number" json:"accountNumber"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// NewWithdrawMethod creates a new WithdrawMethod instance.
func NewWithdrawMethod(userID int64, bankName, accountName, accountNumber string) *WithdrawMethod {
	return &WithdrawMethod{
		UserID:        userID,
		BankName:      bankName,
		AccountName:   accountName,
		AccountNumber: accountNumber,
		CreatedAt:     time.Now().UTC(),
	}
}
