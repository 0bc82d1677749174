package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p2pledger/transferd/internal/domain"
	"github.com/p2pledger/transferd/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Insert persists a new account and returns its assigned identifier.
// A duplicate account number surfaces as domain.ErrConflict so the caller
// can draw a fresh number.
func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (int64, error) {
	query := `
		INSERT INTO accounts (account_number, balance, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		account.Number,
		account.Balance,
		account.UserID,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return 0, fmt.Errorf("%w: account number %s", domain.ErrConflict, account.Number)
		}

		return 0, fmt.Errorf("%w: insert account: %v", domain.ErrStorage, err)
	}

	if id == 0 {
		return 0, fmt.Errorf("%w: no identifier returned for new account", domain.ErrStorage)
	}

	return id, nil
}

// GetByID retrieves an account by its internal identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := accountSelect + ` WHERE id = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByNumber retrieves an account by its account number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := accountSelect + ` WHERE account_number = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, number))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE row lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id int64) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := accountSelect + ` WHERE id = $1 FOR UPDATE`

	return r.scanOne(pgxTx.QueryRow(ctx, query, id))
}

// GetByNumbersForUpdate locks the matching rows with FOR UPDATE. Rows are
// ordered by ascending ID so every transfer acquires its locks in the same
// global order regardless of transfer direction.
func (r *AccountRepository) GetByNumbersForUpdate(ctx context.Context, tx usecase.Tx, numbers []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := accountSelect + ` WHERE account_number = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := pgxTx.Query(ctx, query, numbers)
	if err != nil {
		return nil, fmt.Errorf("%w: lock accounts: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", domain.ErrStorage, err)
		}
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

// ListByUser lists all accounts owned by a user.
func (r *AccountRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Account, error) {
	query := accountSelect + ` WHERE user_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list accounts: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", domain.ErrStorage, err)
		}
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

// UpdateBalance writes a new balance inside the given transaction. Zero rows
// affected means the row vanished since it was read; that trips the
// lost-update guard.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, id int64, balance int64, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, balance, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: update balance: %v", domain.ErrStorage, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", domain.ErrConflict, id)
	}

	return nil
}

// Delete removes an account inside the given transaction.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Tx, id int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete account: %v", domain.ErrStorage, err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

const accountSelect = `SELECT id, account_number, balance, user_id, created_at, updated_at FROM accounts`

func (r *AccountRepository) scanOne(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := scanAccount(row, &account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, fmt.Errorf("%w: scan account: %v", domain.ErrStorage, err)
	}

	return &account, nil
}

func scanAccount(row pgx.Row, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.Number,
		&account.Balance,
		&account.UserID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
}
