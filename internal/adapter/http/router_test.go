package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/p2pledger/transferd/internal/adapter/http/handler"
	apimiddleware "github.com/p2pledger/transferd/internal/adapter/http/middleware"
	"github.com/p2pledger/transferd/internal/domain"
	"github.com/p2pledger/transferd/internal/infrastructure/auth"
	"github.com/p2pledger/transferd/internal/infrastructure/metrics"
	"github.com/p2pledger/transferd/internal/usecase"
)

var testJWTManager = auth.NewJWTManager("router-test-secret", time.Hour)

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	m := metrics.NewWith(prometheus.NewRegistry())

	cfg := RouterConfig{
		UserHandler:     handler.NewUserHandler(stubUserService{}, testJWTManager, m),
		AccountHandler:  handler.NewAccountHandler(stubLedgerService{}, m),
		TransferHandler: handler.NewTransferHandler(stubLedgerService{}, m),
		HealthHandler:   &handler.HealthHandler{},
		JWTManager:      testJWTManager,
		IdempotencyTTL:  time.Hour,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func bearerToken(t *testing.T, userID int64) string {
	t.Helper()

	token, err := testJWTManager.Generate(&domain.User{ID: userID, Username: "tester"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return "Bearer " + token
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RequiresAuthentication(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestNewRouter_AllowsAuthenticatedRequests(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/", nil)
	req.Header.Set("Authorization", bearerToken(t, 42))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_RegisterEndpointIsPublic(t *testing.T) {
	router := NewRouter(newRouterConfig())

	body := `{"username":"alice","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 without token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"initial_balance":1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, 42))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/users/register",
		"POST /api/v1/users/login",
		"GET /api/v1/users/me",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"DELETE /api/v1/accounts/{id}",
		"GET /api/v1/accounts/{id}/transactions",
		"GET /api/v1/accounts/number/{number}",
		"POST /api/v1/transactions/",
		"GET /api/v1/transactions/{id}",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

type stubUserService struct{}

func (stubUserService) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: 1, Username: input.Username}, nil
}

func (stubUserService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return &domain.User{ID: 1, Username: input.Username}, nil
}

func (stubUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id, Username: "tester"}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: 1, Number: "ACC0123456789ABCDEF01", Balance: input.InitialBalance, UserID: input.UserID}, nil
}

func (stubLedgerService) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	return &domain.Account{ID: id, UserID: 42}, nil
}

func (stubLedgerService) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return &domain.Account{ID: 1, Number: number, UserID: 42}, nil
}

func (stubLedgerService) ListUserAccounts(ctx context.Context, userID int64) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

func (stubLedgerService) CloseAccount(ctx context.Context, accountID int64) error {
	return nil
}

func (stubLedgerService) Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-1", Amount: input.Amount, Status: domain.StatusCompleted}, nil
}

func (stubLedgerService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id, FromAccountID: 1, ToAccountID: 2}, nil
}

func (stubLedgerService) ListAccountTransactions(ctx context.Context, input usecase.ListAccountTransactionsInput) ([]*domain.Transaction, error) {
	return []*domain.Transaction{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
