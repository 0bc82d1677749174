package usecase

import (
	"context"
	"time"

	"github.com/p2pledger/transferd/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Insert(ctx context.Context, account *domain.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id int64) (*domain.Account, error)
	// GetByNumbersForUpdate locks the matching rows in ascending ID order
	// so that concurrent transfers acquire locks in a fixed global order.
	GetByNumbersForUpdate(ctx context.Context, tx Tx, numbers []string) ([]*domain.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Tx, id int64, balance int64, updatedAt time.Time) error
	Delete(ctx context.Context, tx Tx, id int64) error
}

// TransactionRepository defines data access for transfer records.
// Records are append-only; the only delete is the cascade invoked when an
// account is closed.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ExistsForAccount(ctx context.Context, accountID int64) (bool, error)
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transaction, error)
	DeleteAllForAccount(ctx context.Context, tx Tx, accountID int64) (int64, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Tx represents a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles database transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique transaction record IDs.
type IDGenerator interface {
	Generate() string
}

// NumberGenerator generates account numbers. The ledger treats the produced
// strings as opaque unique keys; uniqueness is enforced by the store.
type NumberGenerator interface {
	Generate() string
}

// Retrier retries an operation that failed with a transient storage conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage for the API layer.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
