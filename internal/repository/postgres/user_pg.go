// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"points-ledger/internal/domain"
	"points-ledger/internal/repository"
	"points-ledger/internal/util"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

const userColumns = `id, username, password, full_name, points, withdraw_password,
	bank_name, bank_account_name, bank_account, created_at, updated_at`

// CreateUser inserts a new user using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (username, password, full_name, points, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		user.Username, user.Password, user.FullName, user.Points, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return util.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
func (r *UserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	err := q.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username '%s': %w", username, err)
	}
	return &user, nil
}

// FindUsersByUsername returns users matching the exact username.
func (r *UserRepository) FindUsersByUsername(ctx context.Context, q repository.DBExecutor, username string) ([]domain.User, error) {
	users := []domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := q.SelectContext(ctx, &users, query, username); err != nil {
		return nil, fmt.Errorf("failed to find users by username '%s': %w", username, err)
	}
	return users, nil
}

// SetWithdrawPassword stores the secondary withdraw credential for a user.
func (r *UserRepository) SetWithdrawPassword(ctx context.Context, q repository.DBExecutor, username, withdrawPassword string) error {
	query := `UPDATE users SET withdraw_password = $1, updated_at = $2 WHERE username = $3`
	result, err := q.ExecContext(ctx, query, withdrawPassword, time.Now().UTC(), username)
	if err != nil {
		return fmt.Errorf("failed to set withdraw password for '%s': %w", username, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after setting withdraw password: %w", err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

// AddPoints increases a user's balance by amount.
func (r *UserRepository) AddPoints(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal) error {
	query := `UPDATE users SET points = points + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, amount, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to add points for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after adding points for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

// DeductPoints decreases a user's balance by amount. The balance guard is part
// of the statement, so under concurrency the row either satisfies points >=
// amount at write time or nothing is touched.
func (r *UserRepository) DeductPoints(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal) error {
	query := `UPDATE users SET points = points - $1, updated_at = $2 WHERE id = $3 AND points >= $1`
	result, err := q.ExecContext(ctx, query, amount, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to deduct points for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deducting points for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		// The user row exists for every caller of this method, so a zero-row
		// update means the guard rejected the deduction.
		return util.ErrInsufficientBalance
	}
	return nil
}
