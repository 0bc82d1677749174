package domain

import "time"

// TransactionStatus is the lifecycle state of a transfer record.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Transaction is the immutable record of a funds movement between two
// accounts. A record is written exactly once and never updated; a FAILED
// record stands permanently as evidence of an attempted transfer.
type Transaction struct {
	ID            string
	FromAccountID int64
	ToAccountID   int64
	Amount        int64
	Status        TransactionStatus
	CreatedAt     time.Time
}

// Validate checks the transfer invariants.
func (t *Transaction) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount <= 0 {
		return ErrInvalidAmount
	}

	return nil
}
