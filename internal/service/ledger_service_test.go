// internal/service/ledger_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"points-ledger/internal/domain"
	"points-ledger/internal/util"
)

// ledgerFixture bundles the mocks behind a LedgerService under test.
type ledgerFixture struct {
	userRepo           *MockUserRepository
	transactionRepo    *MockTransactionRepository
	withdrawMethodRepo *MockWithdrawMethodRepository
	service            LedgerService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		userRepo:           new(MockUserRepository),
		transactionRepo:    new(MockTransactionRepository),
		withdrawMethodRepo: new(MockWithdrawMethodRepository),
	}
	controller := new(MockTxController)
	beginTx, commitTx, rollbackTx := txFuncs(controller)
	f.service = NewLedgerService(
		new(MockDBBeginner),
		new(MockDBExecutor),
		f.userRepo,
		f.transactionRepo,
		f.withdrawMethodRepo,
		beginTx,
		commitTx,
		rollbackTx,
	)
	return f
}

func strPtr(s string) *string { return &s }

func testUser(id int64, username string) *domain.User {
	return &domain.User{
		ID:       id,
		Username: username,
		FullName: "Test User",
		Points:   decimal.NewFromInt(100),
	}
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("GetUserByID", ctx, mock.Anything, int64(7)).Return(testUser(7, "alice"), nil).Once()
		f.transactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.MatchedBy(func(tx *domain.Transaction) bool {
			return tx.Status == domain.TransactionStatusPending &&
				tx.Type == domain.TransactionTypeWithdraw &&
				tx.Amount.Equal(decimal.NewFromInt(50)) &&
				tx.OrderNo != ""
		})).Return(nil).Once()

		transaction, err := f.service.CreateTransaction(ctx, CreateTransactionInput{
			UserID: 7,
			Type:   domain.TransactionTypeWithdraw,
			Amount: "50",
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusPending, transaction.Status)
		assert.NotEmpty(t, transaction.OrderNo, "order number is generated when absent")
		mock.AssertExpectationsForObjects(t, f.userRepo, f.transactionRepo)
	})

	t.Run("EmptyAmountDefaultsToZero", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("GetUserByID", ctx, mock.Anything, int64(7)).Return(testUser(7, "alice"), nil).Once()
		f.transactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.MatchedBy(func(tx *domain.Transaction) bool {
			return tx.Amount.IsZero()
		})).Return(nil).Once()

		_, err := f.service.CreateTransaction(ctx, CreateTransactionInput{
			UserID: 7,
			Type:   domain.TransactionTypeDeposit,
		})
		assert.NoError(t, err)
	})

	t.Run("MalformedAmount", func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.service.CreateTransaction(ctx, CreateTransactionInput{
			UserID: 7,
			Type:   domain.TransactionTypeDeposit,
			Amount: "not-a-number",
		})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		f.transactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.service.CreateTransaction(ctx, CreateTransactionInput{
			UserID: 7,
			Type:   domain.TransactionTypeDeposit,
			Amount: "-10",
		})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("UnknownType", func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.service.CreateTransaction(ctx, CreateTransactionInput{
			UserID: 7,
			Type:   "transfer",
			Amount: "10",
		})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("GetUserByID", ctx, mock.Anything, int64(99)).Return(nil, util.ErrNotFound).Once()

		_, err := f.service.CreateTransaction(ctx, CreateTransactionInput{
			UserID: 99,
			Type:   domain.TransactionTypeDeposit,
			Amount: "10",
		})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		f.transactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful", func(t *testing.T) {
		f := newLedgerFixture()
		user := testUser(1, "alice")
		user.Password = "secret"
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "alice").Return(user, nil).Once()

		got, err := f.service.Login(ctx, "alice", "secret")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		f := newLedgerFixture()
		user := testUser(1, "alice")
		user.Password = "secret"
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "alice").Return(user, nil).Once()

		_, err := f.service.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "nobody").Return(nil, util.ErrNotFound).Once()

		_, err := f.service.Login(ctx, "nobody", "secret")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})
}

func TestCheckWithdrawReady(t *testing.T) {
	ctx := context.Background()

	t.Run("ReadyWithMethodRow", func(t *testing.T) {
		f := newLedgerFixture()
		user := testUser(1, "alice")
		user.WithdrawPassword = strPtr("1234")
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "alice").Return(user, nil).Once()
		f.withdrawMethodRepo.On("CountByUserID", ctx, mock.Anything, int64(1)).Return(int64(1), nil).Once()

		ready, err := f.service.CheckWithdrawReady(ctx, "alice")
		assert.NoError(t, err)
		assert.True(t, ready)
	})

	t.Run("ReadyWithLegacyBankFields", func(t *testing.T) {
		f := newLedgerFixture()
		user := testUser(1, "alice")
		user.WithdrawPassword = strPtr("1234")
		user.BankName = strPtr("First Bank")
		user.BankAccount = strPtr("123456789")
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "alice").Return(user, nil).Once()

		ready, err := f.service.CheckWithdrawReady(ctx, "alice")
		assert.NoError(t, err)
		assert.True(t, ready)
		// Legacy fields satisfy readiness without consulting the method table.
		f.withdrawMethodRepo.AssertNotCalled(t, "CountByUserID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoWithdrawPassword", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "alice").Return(testUser(1, "alice"), nil).Once()

		ready, err := f.service.CheckWithdrawReady(ctx, "alice")
		assert.NoError(t, err)
		assert.False(t, ready)
	})

	t.Run("NoMethods", func(t *testing.T) {
		f := newLedgerFixture()
		user := testUser(1, "alice")
		user.WithdrawPassword = strPtr("1234")
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "alice").Return(user, nil).Once()
		f.withdrawMethodRepo.On("CountByUserID", ctx, mock.Anything, int64(1)).Return(int64(0), nil).Once()

		ready, err := f.service.CheckWithdrawReady(ctx, "alice")
		assert.NoError(t, err)
		assert.False(t, ready)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "nobody").Return(nil, util.ErrNotFound).Once()

		ready, err := f.service.CheckWithdrawReady(ctx, "nobody")
		assert.NoError(t, err)
		assert.False(t, ready)
	})
}

func TestGetWithdrawAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("FoldsLegacyBankFieldsIntoList", func(t *testing.T) {
		f := newLedgerFixture()
		user := testUser(1, "alice")
		user.BankName = strPtr("First Bank")
		user.BankAccountName = strPtr("Alice A.")
		user.BankAccount = strPtr("123456789")
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "alice").Return(user, nil).Once()
		f.withdrawMethodRepo.On("ListByUserID", ctx, mock.Anything, int64(1)).Return([]domain.WithdrawMethod{
			{ID: 10, UserID: 1, BankName: "Second Bank", AccountName: "Alice A.", AccountNumber: "987654321"},
		}, nil).Once()

		accounts, err := f.service.GetWithdrawAccounts(ctx, "alice")
		assert.NoError(t, err)
		assert.Len(t, accounts, 2)
		assert.Equal(t, "First Bank", accounts[0].BankName)
		assert.Equal(t, "123456789", accounts[0].AccountNumber)
		assert.Equal(t, "Second Bank", accounts[1].BankName)
	})

	t.Run("UnknownUserYieldsEmptyList", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("GetUserByUsername", ctx, mock.Anything, "nobody").Return(nil, util.ErrNotFound).Once()

		accounts, err := f.service.GetWithdrawAccounts(ctx, "nobody")
		assert.NoError(t, err)
		assert.Empty(t, accounts)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("CreateUser", ctx, mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "alice" && u.Points.IsZero() && u.WithdrawPassword == nil
		})).Return(nil).Once()

		user, err := f.service.Register(ctx, RegisterInput{Username: "alice", Password: "secret", FullName: "Alice A."})
		assert.NoError(t, err)
		assert.True(t, user.Points.IsZero(), "registration can never seed a balance")
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		f := newLedgerFixture()
		f.userRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).Return(util.ErrDuplicateUsername).Once()

		_, err := f.service.Register(ctx, RegisterInput{Username: "alice", Password: "secret"})
		assert.ErrorIs(t, err, util.ErrDuplicateUsername)
	})

	t.Run("MissingFields", func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.service.Register(ctx, RegisterInput{Username: " ", Password: ""})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		f.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}
