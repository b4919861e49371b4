// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"time"

	"points-ledger/internal/domain"
)

// ReviewUpdate carries the fields written when a transaction leaves pending.
type ReviewUpdate struct {
	Status     domain.TransactionStatus
	ReviewBy   string
	ReviewTime time.Time
	Remark     *string
}

// TransactionRepository defines the interface for transaction data operations.
type TransactionRepository interface {
	// CreateTransaction adds a new transaction record. Callers always create
	// transactions in pending status.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionByID retrieves a transaction by its ID.
	GetTransactionByID(ctx context.Context, q DBExecutor, id int64) (*domain.Transaction, error)
	// MarkReviewed flips a transaction out of pending. The update is
	// conditional on the row still being pending; if it is not (or the row is
	// missing) it fails with util.ErrAlreadyReviewed and writes nothing. This
	// is the compare-and-swap that makes concurrent reviews safe.
	MarkReviewed(ctx context.Context, q DBExecutor, id int64, update ReviewUpdate) error
	// ListTransactions returns a page of transactions with their owning user,
	// newest first (created_at DESC, id DESC as tie-break), plus the total
	// count for the filter.
	ListTransactions(ctx context.Context, q DBExecutor, filter domain.TransactionFilter, page, pageSize int) ([]domain.TransactionWithUser, int64, error)
}
