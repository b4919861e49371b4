// internal/repository/withdraw_method_repo.go
package repository

import (
	"context"

	"points-ledger/internal/domain"
)

// WithdrawMethodRepository defines the interface for payout method data
// operations.
type WithdrawMethodRepository interface {
	// CreateWithdrawMethod adds a new payout method for a user.
	CreateWithdrawMethod(ctx context.Context, q DBExecutor, method *domain.WithdrawMethod) error
	// ListByUserID returns all payout methods of a user, oldest first.
	ListByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.WithdrawMethod, error)
	// CountByUserID returns the number of payout methods a user has.
	CountByUserID(ctx context.Context, q DBExecutor, userID int64) (int64, error)
}
