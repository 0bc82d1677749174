package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrNegativeBalance   = errors.New("balance cannot be negative")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Transfer errors
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrUnauthorized  = errors.New("invalid username or password")

	// Storage errors
	ErrConflict = errors.New("concurrent modification conflict")
	ErrStorage  = errors.New("storage failure")
)
