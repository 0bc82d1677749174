package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/p2pledger/transferd/internal/adapter/http/dto"
	"github.com/p2pledger/transferd/internal/adapter/http/middleware"
	"github.com/p2pledger/transferd/internal/domain"
	"github.com/p2pledger/transferd/internal/infrastructure/metrics"
	"github.com/p2pledger/transferd/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListAccountTransactions(ctx context.Context, input usecase.ListAccountTransactionsInput) ([]*domain.Transaction, error)
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	ledgerUC TransferService
	metrics  *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ledgerUC TransferService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{ledgerUC: ledgerUC, metrics: m}
}

// Create executes a transfer from one of the caller's accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	source, err := h.ledgerUC.GetAccountByNumber(r.Context(), req.FromAccountNumber)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve source account", err.Error())
		return
	}

	if source.UserID != claims.UserID {
		writeError(w, http.StatusForbidden, "source account belongs to another user", "")
		return
	}

	start := time.Now()

	txn, err := h.ledgerUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.metrics.TransferErrors.WithLabelValues(errorKind(err)).Inc()
		writeError(w, mapDomainError(err), "transfer failed", err.Error())

		return
	}

	h.metrics.TransfersCompleted.Inc()
	h.metrics.TransferDuration.Observe(time.Since(start).Seconds())
	h.metrics.TransferAmount.Observe(float64(txn.Amount))

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transfer record by ID. The caller must own one of the
// accounts involved.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.ledgerUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	if !h.callerInvolved(r.Context(), claims.UserID, txn) {
		writeError(w, http.StatusForbidden, "transaction involves other users only", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// ListByAccount lists the transfer history of one of the caller's accounts,
// newest first.
func (h *TransferHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", "")
		return
	}

	account, err := h.ledgerUC.GetAccountByID(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	if account.UserID != claims.UserID {
		writeError(w, http.StatusForbidden, "account belongs to another user", "")
		return
	}

	txns, err := h.ledgerUC.ListAccountTransactions(r.Context(), usecase.ListAccountTransactionsInput{
		AccountID: accountID,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

func (h *TransferHandler) callerInvolved(ctx context.Context, userID int64, txn *domain.Transaction) bool {
	for _, accountID := range []int64{txn.FromAccountID, txn.ToAccountID} {
		account, err := h.ledgerUC.GetAccountByID(ctx, accountID)
		if err != nil {
			continue
		}

		if account.UserID == userID {
			return true
		}
	}

	return false
}
