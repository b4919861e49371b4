// internal/service/review_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"points-ledger/internal/domain"
	"points-ledger/internal/repository"
	"points-ledger/internal/util"
	"points-ledger/pkg/db"
)

// ReviewInput carries a reviewer's decision on a pending transaction.
// OverrideAmount, when set, is the amount actually settled against the
// balance; the transaction's requested amount is left untouched either way.
type ReviewInput struct {
	Decision       domain.TransactionStatus
	ReviewBy       string
	Remark         *string
	OverrideAmount *decimal.Decimal
}

// ReviewService owns the pending -> approved/rejected transition.
type ReviewService interface {
	// Review applies a decision to a pending transaction. On approval the
	// status flip and the balance adjustment commit as one database
	// transaction; any failure leaves both rows untouched.
	//
	// Failure kinds surfaced to the caller:
	//   - util.ErrInvalidInput: malformed decision or override amount
	//   - util.ErrAlreadyReviewed: transaction missing or not pending
	//   - util.ErrInsufficientBalance: withdraw settlement exceeds balance;
	//     the transaction stays pending
	// Anything else is a persistence failure and safe to retry.
	Review(ctx context.Context, transactionID int64, input ReviewInput) error
}

// reviewService implements the ReviewService interface.
type reviewService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewReviewService creates a new instance of ReviewService.
func NewReviewService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) ReviewService {
	return &reviewService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// Review applies a reviewer's decision to a pending transaction.
func (s *reviewService) Review(ctx context.Context, transactionID int64, input ReviewInput) error {
	if input.Decision != domain.TransactionStatusApproved && input.Decision != domain.TransactionStatusRejected {
		return util.ErrInvalidInput
	}
	if input.ReviewBy == "" {
		return util.ErrInvalidInput
	}
	if input.OverrideAmount != nil && input.OverrideAmount.IsNegative() {
		return util.ErrInvalidInput
	}

	// Pre-flight read outside the write transaction. This catches the common
	// cases cheaply, but the state can change between this read and the
	// write, so the write re-checks the pending status itself.
	transaction, err := s.transactionRepo.GetTransactionByID(ctx, s.dbExecutor, transactionID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.ErrAlreadyReviewed
		}
		return fmt.Errorf("review: failed to load transaction %d: %w", transactionID, err)
	}
	if transaction.Status != domain.TransactionStatusPending {
		return util.ErrAlreadyReviewed
	}

	// The settlement amount is what actually moves; the requested amount is
	// historical record.
	settlement := transaction.Amount
	if input.OverrideAmount != nil {
		settlement = *input.OverrideAmount
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("review: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("review: transaction controller does not implement DBExecutor")
	}

	update := repository.ReviewUpdate{
		Status:     input.Decision,
		ReviewBy:   input.ReviewBy,
		ReviewTime: time.Now().UTC(),
		Remark:     input.Remark,
	}
	if err := s.transactionRepo.MarkReviewed(ctx, txExecutor, transactionID, update); err != nil {
		return err
	}

	if input.Decision == domain.TransactionStatusApproved {
		switch transaction.Type {
		case domain.TransactionTypeDeposit:
			if err := s.userRepo.AddPoints(ctx, txExecutor, transaction.UserID, settlement); err != nil {
				return fmt.Errorf("review: failed to add points for user %d: %w", transaction.UserID, err)
			}
		case domain.TransactionTypeWithdraw:
			if err := s.userRepo.DeductPoints(ctx, txExecutor, transaction.UserID, settlement); err != nil {
				if util.IsError(err, util.ErrInsufficientBalance) {
					// The deferred rollback reverts the status flip too, so
					// the transaction stays pending and retryable.
					return util.ErrInsufficientBalance
				}
				return fmt.Errorf("review: failed to deduct points for user %d: %w", transaction.UserID, err)
			}
		default:
			return fmt.Errorf("review: transaction %d has unknown type %q", transactionID, transaction.Type)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("review: failed to commit transaction: %w", err)
	}
	return nil
}
