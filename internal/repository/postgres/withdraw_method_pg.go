// internal/repository/postgres/withdraw_method_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"points-ledger/internal/domain"
	"points-ledger/internal/repository"
)

// WithdrawMethodRepository implements repository.WithdrawMethodRepository for PostgreSQL.
type WithdrawMethodRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewWithdrawMethodRepository creates a new WithdrawMethodRepository.
func NewWithdrawMethodRepository(db *sqlx.DB) repository.WithdrawMethodRepository {
	return &WithdrawMethodRepository{}
}

// CreateWithdrawMethod inserts a new payout method using the provided DBExecutor.
func (r *WithdrawMethodRepository) CreateWithdrawMethod(ctx context.Context, q repository.DBExecutor, method *domain.WithdrawMethod) error {
	query := `INSERT INTO withdraw_methods (user_id, bank_name, account_name, account_number, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		method.UserID, method.BankName, method.AccountName, method.AccountNumber, method.CreatedAt,
	).Scan(&method.ID)
	if err != nil {
		return fmt.Errorf("failed to create withdraw method: %w", err)
	}
	return nil
}

// ListByUserID returns all payout methods of a user, oldest first.
func (r *WithdrawMethodRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.WithdrawMethod, error) {
	methods := []domain.WithdrawMethod{}
	query := `SELECT id, user_id, bank_name, account_name, account_number, created_at
              FROM withdraw_methods WHERE user_id = $1 ORDER BY id ASC`
	if err := q.SelectContext(ctx, &methods, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list withdraw methods for user %d: %w", userID, err)
	}
	return methods, nil
}

// CountByUserID returns the number of payout methods a user has.
func (r *WithdrawMethodRepository) CountByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM withdraw_methods WHERE user_id = $1`
	if err := q.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count withdraw methods for user %d: %w", userID, err)
	}
	return count, nil
}
