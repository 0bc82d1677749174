package domain

import "time"

// Account represents a user-owned monetary account addressed by a unique
// account number. Balance is stored in the smallest currency unit and must
// never go negative.
type Account struct {
	ID        int64
	Number    string
	Balance   int64
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanDebit checks if the account holds enough funds to be debited by amount.
func (a *Account) CanDebit(amount int64) error {
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit of amount.
func (a *Account) ApplyDebit(amount int64) int64 {
	return a.Balance - amount
}

// ApplyCredit returns the balance after a credit of amount.
func (a *Account) ApplyCredit(amount int64) int64 {
	return a.Balance + amount
}
