package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p2pledger/transferd/internal/domain"
	"github.com/p2pledger/transferd/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Records
// are written once and never updated; the only delete is the cascade used
// when an account is closed.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a transfer record inside the given transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (id, from_account_id, to_account_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		txn.ID,
		txn.FromAccountID,
		txn.ToAccountID,
		txn.Amount,
		txn.Status,
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert transaction: %v", domain.ErrStorage, err)
	}

	return nil
}

// GetByID retrieves a transfer record by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := transactionSelect + ` WHERE id = $1`

	var txn domain.Transaction
	err := scanTransaction(r.pool.QueryRow(ctx, query, id), &txn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, fmt.Errorf("%w: scan transaction: %v", domain.ErrStorage, err)
	}

	return &txn, nil
}

// ExistsForAccount reports whether any record references the account.
func (r *TransactionRepository) ExistsForAccount(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE from_account_id = $1 OR to_account_id = $1)`,
		accountID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: check transactions: %v", domain.ErrStorage, err)
	}

	return exists, nil
}

// ListByAccount lists records referencing the account, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transaction, error) {
	query := transactionSelect + `
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := scanTransaction(rows, &txn); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", domain.ErrStorage, err)
		}
		transactions = append(transactions, &txn)
	}

	return transactions, rows.Err()
}

// DeleteAllForAccount removes every record referencing the account, inside
// the given transaction, and returns the number of rows removed.
func (r *TransactionRepository) DeleteAllForAccount(ctx context.Context, tx usecase.Tx, accountID int64) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`DELETE FROM transactions WHERE from_account_id = $1 OR to_account_id = $1`,
		accountID,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: delete transactions: %v", domain.ErrStorage, err)
	}

	return tag.RowsAffected(), nil
}

const transactionSelect = `SELECT id, from_account_id, to_account_id, amount, status, created_at FROM transactions`

func scanTransaction(row pgx.Row, txn *domain.Transaction) error {
	return row.Scan(
		&txn.ID,
		&txn.FromAccountID,
		&txn.ToAccountID,
		&txn.Amount,
		&txn.Status,
		&txn.CreatedAt,
	)
}
