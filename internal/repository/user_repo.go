// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"points-ledger/internal/domain"
)

// UserRepository defines the interface for user data operations.
//
// Points are mutated only through AddPoints/DeductPoints, and only the review
// engine calls those, inside the same transaction that flips the request
// status.
type UserRepository interface {
	// CreateUser adds a new user using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByUsername retrieves a user by their unique username.
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// FindUsersByUsername returns users matching the exact username, or an
	// empty slice. Listing shape kept for the profile endpoint.
	FindUsersByUsername(ctx context.Context, q DBExecutor, username string) ([]domain.User, error)
	// SetWithdrawPassword stores the secondary withdraw credential.
	SetWithdrawPassword(ctx context.Context, q DBExecutor, username, withdrawPassword string) error
	// AddPoints increases a user's balance by amount.
	AddPoints(ctx context.Context, q DBExecutor, userID int64, amount decimal.Decimal) error
	// DeductPoints decreases a user's balance by amount. It fails with
	// util.ErrInsufficientBalance, touching nothing, when the current balance
	// is below amount.
	DeductPoints(ctx context.Context, q DBExecutor, userID int64, amount decimal.Decimal) error
}
