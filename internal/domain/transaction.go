// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the type of a points transaction request.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdraw
}

// TransactionStatus defines the review status of a transaction request.
// Pending is the only non-terminal state; once a transaction leaves it, the
// record is immutable apart from its remark.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusRejected TransactionStatus = "rejected"
)

// Transaction represents a request to move points into or out of a user's
// balance. Amount is the requested amount; the settled amount may differ when
// a reviewer overrides it on approval, but the request amount is never
// rewritten.
type Transaction struct {
	ID              int64             `db:"id" json:"id"`
	UserID          int64             `db:"user_id" json:"userId"`
	Type            TransactionType   `db:"type" json:"type"`
	Amount          decimal.Decimal   `db:"amount" json:"amount"` // NUMERIC(20, 4) in DB
	OrderNo         string            `db:"order_no" json:"orderNo"`
	BankName        *string           `db:"bank_name" json:"bankName,omitempty"`
	BankAccount     *string           `db:"bank_account" json:"bankAccount,omitempty"`
	BankAccountName *string           `db:"bank_account_name" json:"bankAccountName,omitempty"`
	ProofURL        *string           `db:"proof_url" json:"proofUrl,omitempty"`
	Remark          *string           `db:"remark" json:"remark,omitempty"`
	Status          TransactionStatus `db:"status" json:"status"`
	ReviewBy        *string           `db:"review_by" json:"reviewBy,omitempty"`    // Set on transition out of pending
	ReviewTime      *time.Time        `db:"review_time" json:"reviewTime,omitempty"` // Set on transition out of pending
	CreatedAt       time.Time         `db:"created_at" json:"createdAt"`
}

// TransactionWithUser is a Transaction joined with its owning user, as
// returned by the admin listing.
type TransactionWithUser struct {
	Transaction
	User *User `json:"user,omitempty"`
}

// TransactionFilter narrows a transaction listing. Zero values mean "any".
type TransactionFilter struct {
	Type   TransactionType
	Status TransactionStatus
	UserID int64
}

// NewTransaction creates a new pending Transaction instance.
func NewTransaction(
	userID int64,
	txType TransactionType,
	amount decimal.Decimal,
	orderNo string,
) *Transaction {
	return &Transaction{
		UserID:    userID,
		Type:      txType,
		Amount:    amount,
		OrderNo:   orderNo,
		Status:    TransactionStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}
