// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"points-ledger/internal/domain"
	"points-ledger/internal/repository"
	"points-ledger/internal/util"
	"points-ledger/pkg/db"
)

// RegisterInput enumerates exactly the fields accepted at registration.
// Balance and withdraw credentials are deliberately not here: a signup body
// can never set them.
type RegisterInput struct {
	Username string
	Password string
	FullName string
}

// CreateTransactionInput carries a user's deposit or withdraw request.
type CreateTransactionInput struct {
	UserID          int64
	Type            domain.TransactionType
	Amount          string // decimal text, validated here
	OrderNo         string
	BankName        *string
	BankAccount     *string
	BankAccountName *string
	ProofURL        *string
	Remark          *string
}

// LedgerService defines the business logic around users, transaction
// requests, and withdraw setup. Reviewing lives in ReviewService.
type LedgerService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	FindUsers(ctx context.Context, username string) ([]domain.User, error)

	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter, page, pageSize int) ([]domain.TransactionWithUser, int64, error)

	SetWithdrawPassword(ctx context.Context, username, withdrawPassword string) error
	CheckWithdrawPassword(ctx context.Context, username, withdrawPassword string) (bool, error)
	AddWithdrawMethod(ctx context.Context, username, bankName, accountName, accountNumber string) error
	CheckWithdrawReady(ctx context.Context, username string) (bool, error)
	GetWithdrawAccounts(ctx context.Context, username string) ([]domain.WithdrawMethod, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner         db.DBTxBeginner
	dbExecutor         repository.DBExecutor
	userRepo           repository.UserRepository
	transactionRepo    repository.TransactionRepository
	withdrawMethodRepo repository.WithdrawMethodRepository
	beginTx            db.BeginTxFunc
	commitTx           db.CommitTxFunc
	rollbackTx         db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	withdrawMethodRepo repository.WithdrawMethodRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:         dbBeginner,
		dbExecutor:         dbExecutor,
		userRepo:           userRepo,
		transactionRepo:    transactionRepo,
		withdrawMethodRepo: withdrawMethodRepo,
		beginTx:            beginTx,
		commitTx:           commitTx,
		rollbackTx:         rollbackTx,
	}
}

// Register creates a new user with a zero balance.
func (s *ledgerService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return nil, util.ErrInvalidInput
	}

	user := domain.NewUser(input.Username, input.Password, input.FullName)
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		if util.IsError(err, util.ErrDuplicateUsername) {
			return nil, util.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns the user's profile.
func (s *ledgerService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: failed to get user '%s': %w", username, err)
	}
	if user.Password != password {
		return nil, util.ErrInvalidCredentials
	}
	return user, nil
}

// FindUsers returns users matching the exact username; empty input yields an
// empty result rather than an error.
func (s *ledgerService) FindUsers(ctx context.Context, username string) ([]domain.User, error) {
	if username == "" {
		return []domain.User{}, nil
	}
	users, err := s.userRepo.FindUsersByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

// CreateTransaction records a new deposit or withdraw request. Requests are
// always created pending; no balance is touched until review.
func (s *ledgerService) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if !input.Type.Valid() {
		return nil, util.ErrInvalidInput
	}

	amountText := strings.TrimSpace(input.Amount)
	if amountText == "" {
		amountText = "0"
	}
	amount, err := decimal.NewFromString(amountText)
	if err != nil || amount.IsNegative() {
		return nil, util.ErrInvalidInput
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, input.UserID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrInvalidInput
		}
		return nil, fmt.Errorf("create transaction: failed to check user %d: %w", input.UserID, err)
	}

	orderNo := input.OrderNo
	if orderNo == "" {
		orderNo = uuid.NewString()
	}

	transaction := domain.NewTransaction(input.UserID, input.Type, amount, orderNo)
	transaction.BankName = input.BankName
	transaction.BankAccount = input.BankAccount
	transaction.BankAccountName = input.BankAccountName
	transaction.ProofURL = input.ProofURL
	transaction.Remark = input.Remark

	if err := s.transactionRepo.CreateTransaction(ctx, s.dbExecutor, transaction); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return transaction, nil
}

// ListTransactions returns a filtered, paginated listing, newest first.
func (s *ledgerService) ListTransactions(ctx context.Context, filter domain.TransactionFilter, page, pageSize int) ([]domain.TransactionWithUser, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	transactions, totalCount, err := s.transactionRepo.ListTransactions(ctx, s.dbExecutor, filter, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, totalCount, nil
}

// SetWithdrawPassword stores the secondary withdraw credential.
func (s *ledgerService) SetWithdrawPassword(ctx context.Context, username, withdrawPassword string) error {
	if username == "" || withdrawPassword == "" {
		return util.ErrInvalidInput
	}
	if err := s.userRepo.SetWithdrawPassword(ctx, s.dbExecutor, username, withdrawPassword); err != nil {
		if util.IsError(err, util.ErrUserNotFound) {
			return util.ErrUserNotFound
		}
		return fmt.Errorf("set withdraw password: %w", err)
	}
	return nil
}

// CheckWithdrawPassword reports whether the given withdraw password matches.
// An unknown user or unset password is simply "no match", never an error.
func (s *ledgerService) CheckWithdrawPassword(ctx context.Context, username, withdrawPassword string) (bool, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check withdraw password: %w", err)
	}
	return user.WithdrawPassword != nil && *user.WithdrawPassword == withdrawPassword, nil
}

// AddWithdrawMethod registers a payout destination for a user.
func (s *ledgerService) AddWithdrawMethod(ctx context.Context, username, bankName, accountName, accountNumber string) error {
	if bankName == "" || accountNumber == "" {
		return util.ErrInvalidInput
	}
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.ErrUserNotFound
		}
		return fmt.Errorf("add withdraw method: failed to get user '%s': %w", username, err)
	}

	method := domain.NewWithdrawMethod(user.ID, bankName, accountName, accountNumber)
	if err := s.withdrawMethodRepo.CreateWithdrawMethod(ctx, s.dbExecutor, method); err != nil {
		return fmt.Errorf("add withdraw method: %w", err)
	}
	return nil
}

// CheckWithdrawReady reports whether a user may start a withdrawal: a
// withdraw password is set and at least one payout destination exists.
func (s *ledgerService) CheckWithdrawReady(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check withdraw ready: %w", err)
	}
	if !user.HasWithdrawPassword() {
		return false, nil
	}
	if user.HasLegacyBankAccount() {
		return true, nil
	}
	count, err := s.withdrawMethodRepo.CountByUserID(ctx, s.dbExecutor, user.ID)
	if err != nil {
		return false, fmt.Errorf("check withdraw ready: %w", err)
	}
	return count > 0, nil
}

// GetWithdrawAccounts returns a user's payout destinations. The legacy flat
// bank fields on the user row are synthesized into the same list, so callers
// see one schema regardless of where the data lives.
func (s *ledgerService) GetWithdrawAccounts(ctx context.Context, username string) ([]domain.WithdrawMethod, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return []domain.WithdrawMethod{}, nil
		}
		return nil, fmt.Errorf("get withdraw accounts: %w", err)
	}

	methods, err := s.withdrawMethodRepo.ListByUserID(ctx, s.dbExecutor, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get withdraw accounts: %w", err)
	}

	if user.HasLegacyBankAccount() {
		accountName := user.FullName
		if user.BankAccountName != nil && *user.BankAccountName != "" {
			accountName = *user.BankAccountName
		}
		legacy := domain.WithdrawMethod{
			UserID:        user.ID,
			BankName:      *user.BankName,
			AccountName:   accountName,
			AccountNumber: *user.BankAccount,
			CreatedAt:     user.CreatedAt,
		}
		methods = append([]domain.WithdrawMethod{legacy}, methods...)
	}
	return methods, nil
}
