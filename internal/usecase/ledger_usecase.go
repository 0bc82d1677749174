package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/p2pledger/transferd/internal/domain"
)

// maxOpenAttempts bounds retries on account number collisions. Numbers are
// random, so a second collision in a row is effectively impossible.
const maxOpenAttempts = 3

// LedgerUseCase owns the account ledger: opening and closing accounts and
// atomically applying transfers between them.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	userRepo    UserRepository
	idGen       IDGenerator
	numGen      NumberGenerator
	retrier     Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	userRepo UserRepository,
	idGen IDGenerator,
	numGen NumberGenerator,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		userRepo:    userRepo,
		idGen:       idGen,
		numGen:      numGen,
		retrier:     retrier,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	UserID         int64
	InitialBalance int64
}

// OpenAccount creates a new account for an existing user.
func (uc *LedgerUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if err := domain.ValidateInitialBalance(input.InitialBalance); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		Balance:   input.InitialBalance,
		UserID:    input.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The store enforces a unique constraint on the account number; a
	// collision surfaces as ErrConflict and we draw a fresh number.
	for attempt := 0; attempt < maxOpenAttempts; attempt++ {
		account.Number = uc.numGen.Generate()

		id, err := uc.accountRepo.Insert(ctx, account)
		if err == nil {
			account.ID = id
			return account, nil
		}

		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}

	return nil, domain.ErrConflict
}

// TransferInput represents input for a funds transfer.
type TransferInput struct {
	FromNumber string
	ToNumber   string
	Amount     int64
}

// Transfer atomically moves amount from one account to another and records
// the movement as an immutable transaction. Either every write (the record
// and both balance updates) commits, or none does.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transaction, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if input.FromNumber == input.ToNumber {
		return nil, domain.ErrSameAccount
	}

	var txn *domain.Transaction

	// Deadlocks and serialization failures are transient; the retrier
	// re-runs the whole unit from a fresh snapshot.
	err := uc.retrier.Retry(ctx, func() error {
		created, err := uc.transferOnce(ctx, input)
		if err != nil {
			return err
		}

		txn = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

func (uc *LedgerUseCase) transferOnce(ctx context.Context, input TransferInput) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both rows in ascending ID order (deadlock prevention) and
	// validate against this snapshot. The locks hold until commit, so no
	// concurrent transfer can invalidate the balances read here.
	accounts, err := uc.accountRepo.GetByNumbersForUpdate(ctx, tx, []string{input.FromNumber, input.ToNumber})
	if err != nil {
		return nil, err
	}

	var source, dest *domain.Account
	for _, a := range accounts {
		switch a.Number {
		case input.FromNumber:
			source = a
		case input.ToNumber:
			dest = a
		}
	}

	if source == nil || dest == nil {
		return nil, domain.ErrAccountNotFound
	}

	if source.ID == dest.ID {
		return nil, domain.ErrSameAccount
	}

	if err := source.CanDebit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		FromAccountID: source.ID,
		ToAccountID:   dest.ID,
		Amount:        input.Amount,
		Status:        domain.StatusCompleted,
		CreatedAt:     now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, source.ID, source.ApplyDebit(input.Amount), now); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, dest.ID, dest.ApplyCredit(input.Amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetAccountByID retrieves an account by its internal identifier.
func (uc *LedgerUseCase) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetAccountByNumber retrieves an account by its account number.
func (uc *LedgerUseCase) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, number)
}

// ListUserAccounts lists all accounts owned by a user.
func (uc *LedgerUseCase) ListUserAccounts(ctx context.Context, userID int64) ([]*domain.Account, error) {
	return uc.accountRepo.ListByUser(ctx, userID)
}

// GetTransaction retrieves a transfer record by ID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListAccountTransactionsInput represents input for listing transfer records.
type ListAccountTransactionsInput struct {
	AccountID int64
	Limit     int
	Offset    int
}

// ListAccountTransactions lists transfer records touching an account.
func (uc *LedgerUseCase) ListAccountTransactions(ctx context.Context, input ListAccountTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.txnRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// CloseAccount deletes an account and every transaction record referencing
// it, as one atomic unit. This erases transfer history for counterpart
// accounts as well; the trade-off is inherited from the product's per-account
// history model.
func (uc *LedgerUseCase) CloseAccount(ctx context.Context, accountID int64) error {
	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock the row first so a concurrent close fails cleanly with
		// not-found instead of double-deleting.
		if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID); err != nil {
			return err
		}

		if _, err := uc.txnRepo.DeleteAllForAccount(ctx, tx, accountID); err != nil {
			return err
		}

		if err := uc.accountRepo.Delete(ctx, tx, accountID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}
