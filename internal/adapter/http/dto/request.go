package dto

import (
	"github.com/p2pledger/transferd/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: r.Username,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Username: r.Username,
		Password: r.Password,
	}
}

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	InitialBalance int64 `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input for the authenticated user.
func (r *OpenAccountRequest) ToUseCaseInput(userID int64) usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		UserID:         userID,
		InitialBalance: r.InitialBalance,
	}
}

// TransferRequest represents a request to transfer funds.
type TransferRequest struct {
	FromAccountNumber string `json:"from_account_number"`
	ToAccountNumber   string `json:"to_account_number"`
	Amount            int64  `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromNumber: r.FromAccountNumber,
		ToNumber:   r.ToAccountNumber,
		Amount:     r.Amount,
	}
}
