// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"points-ledger/internal/domain"
	"points-ledger/internal/repository"
	"points-ledger/internal/util"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

const transactionColumns = `id, user_id, type, amount, order_no, bank_name, bank_account,
	bank_account_name, proof_url, remark, status, review_by, review_time, created_at`

// CreateTransaction inserts a new transaction record using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, type, amount, order_no, bank_name, bank_account,
	              bank_account_name, proof_url, remark, status, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		transaction.Type,
		transaction.Amount,
		transaction.OrderNo,
		transaction.BankName,
		transaction.BankAccount,
		transaction.BankAccountName,
		transaction.ProofURL,
		transaction.Remark,
		transaction.Status,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves a transaction by its ID using the provided DBExecutor.
func (r *TransactionRepository) GetTransactionByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	var transaction domain.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	err := q.GetContext(ctx, &transaction, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID %d: %w", id, err)
	}
	return &transaction, nil
}

// MarkReviewed flips a transaction out of pending. The WHERE clause re-checks
// the pending status, so out of any number of concurrent reviewers exactly one
// update takes effect; the rest see zero rows affected.
func (r *TransactionRepository) MarkReviewed(ctx context.Context, q repository.DBExecutor, id int64, update repository.ReviewUpdate) error {
	query := `UPDATE transactions
              SET status = $1, review_by = $2, review_time = $3, remark = COALESCE($4, remark)
              WHERE id = $5 AND status = $6`
	result, err := q.ExecContext(ctx, query,
		update.Status, update.ReviewBy, update.ReviewTime, update.Remark,
		id, domain.TransactionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %d reviewed: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after reviewing transaction %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrAlreadyReviewed
	}
	return nil
}

// transactionUserRow scans a transaction joined with its owning user. The
// "user."-prefixed aliases map onto the nested struct via sqlx.
type transactionUserRow struct {
	domain.Transaction
	User domain.User `db:"user"`
}

// ListTransactions returns a page of transactions with their owning user,
// newest first, plus the total count for the filter.
func (r *TransactionRepository) ListTransactions(ctx context.Context, q repository.DBExecutor, filter domain.TransactionFilter, page, pageSize int) ([]domain.TransactionWithUser, int64, error) {
	conditions := []string{}
	args := []interface{}{}

	addCondition := func(column string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("t.%s = $%d", column, len(args)))
	}
	if filter.Type != "" {
		addCondition("type", filter.Type)
	}
	if filter.Status != "" {
		addCondition("status", filter.Status)
	}
	if filter.UserID != 0 {
		addCondition("user_id", filter.UserID)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Query 1: the page itself, joined with the owning user.
	query := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.type, t.amount, t.order_no, t.bank_name, t.bank_account,
		       t.bank_account_name, t.proof_url, t.remark, t.status, t.review_by, t.review_time,
		       t.created_at,
		       u.id AS "user.id", u.username AS "user.username", u.full_name AS "user.full_name",
		       u.points AS "user.points", u.created_at AS "user.created_at", u.updated_at AS "user.updated_at"
		FROM transactions t
		JOIN users u ON u.id = t.user_id%s
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	rows := []transactionUserRow{}
	pageArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)
	if err := q.SelectContext(ctx, &rows, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	// Query 2: the total count for the same filter.
	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM transactions t" + where
	if err := q.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	transactions := make([]domain.TransactionWithUser, 0, len(rows))
	for i := range rows {
		user := rows[i].User
		transactions = append(transactions, domain.TransactionWithUser{
			Transaction: rows[i].Transaction,
			User:        &user,
		})
	}
	return transactions, totalCount, nil
}
