package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/p2pledger/transferd/internal/adapter/http/dto"
	"github.com/p2pledger/transferd/internal/adapter/http/middleware"
	"github.com/p2pledger/transferd/internal/domain"
	"github.com/p2pledger/transferd/internal/infrastructure/metrics"
	"github.com/p2pledger/transferd/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error)
	ListUserAccounts(ctx context.Context, userID int64) ([]*domain.Account, error)
	CloseAccount(ctx context.Context, accountID int64) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	ledgerUC AccountService
	metrics  *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerUC AccountService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{ledgerUC: ledgerUC, metrics: m}
}

// Open opens a new account for the authenticated user.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.ledgerUC.OpenAccount(r.Context(), req.ToUseCaseInput(claims.UserID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open account", err.Error())
		return
	}

	h.metrics.AccountsOpened.Inc()

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves one of the authenticated user's accounts by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", "")
		return
	}

	account, err := h.ledgerUC.GetAccountByID(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	if account.UserID != claims.UserID {
		writeError(w, http.StatusForbidden, "account belongs to another user", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetByNumber retrieves an account by its account number. Only the number,
// owner and creation time are exposed to non-owners.
func (h *AccountHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	account, err := h.ledgerUC.GetAccountByNumber(r.Context(), number)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	if account.UserID != claims.UserID {
		writeJSON(w, http.StatusOK, &dto.AccountResponse{
			ID:            account.ID,
			AccountNumber: account.Number,
			UserID:        account.UserID,
			CreatedAt:     account.CreatedAt,
		})

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the authenticated user's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accounts, err := h.ledgerUC.ListUserAccounts(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Close permanently removes one of the authenticated user's accounts along
// with its transfer history.
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", "")
		return
	}

	account, err := h.ledgerUC.GetAccountByID(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	if account.UserID != claims.UserID {
		writeError(w, http.StatusForbidden, "account belongs to another user", "")
		return
	}

	if err := h.ledgerUC.CloseAccount(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to close account", err.Error())
		return
	}

	h.metrics.AccountsClosed.Inc()

	w.WriteHeader(http.StatusNoContent)
}
