package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"bankloan-web/internal/adapters/api"
	"bankloan-web/internal/adapters/persistence/repositories"
	"bankloan-web/internal/core/domain"
	"bankloan-web/internal/pkg/sealer"
	"bankloan-web/internal/pkg/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func tokenFor(t *testing.T, role string) string {
	return signToken(t, jwt.MapClaims{
		"role":     role,
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
}

func newTestStore(t *testing.T) (*SessionStore, repositories.SessionRepository) {
	t.Helper()
	repo, err := repositories.NewMemorySessionRepository()
	require.NoError(t, err)
	return newTestStoreWithKey(t, repo, "test-key"), repo
}

func newTestStoreWithKey(t *testing.T, repo repositories.SessionRepository, key string) *SessionStore {
	t.Helper()
	s, err := sealer.New(key)
	require.NoError(t, err)
	return NewSessionStore(repo, s, token.NewDecoder(), zap.NewNop())
}

// fakeAPI implements every API interface. Calls block on gate when it is set.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	gate  chan struct{}

	login    *domain.LoginResult
	overview *domain.LoanOverview
	payments []domain.Payment
	funds    *domain.FundOverview
	pending  []domain.LoanRequest
	users    []domain.BankUser

	createdRequest *domain.LoanRequest
	createdPayment *domain.Payment
	fund           *domain.Fund
	agreement      *domain.LoanAgreement

	readErr  error
	writeErr error
	pingErr  error
}

func (f *fakeAPI) record(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(ctx context.Context, _, _ string) (*domain.LoginResult, error) {
	if err := f.record(ctx, "login"); err != nil {
		return nil, err
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return f.login, nil
}

func (f *fakeAPI) ListLoanRequests(ctx context.Context, _ string) (*domain.LoanOverview, error) {
	if err := f.record(ctx, "list loan requests"); err != nil {
		return nil, err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.overview, nil
}

func (f *fakeAPI) CreateLoanRequest(ctx context.Context, _ string, _ domain.LoanRequestInput) (*domain.LoanRequest, error) {
	if err := f.record(ctx, "create loan request"); err != nil {
		return nil, err
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return f.createdRequest, nil
}

func (f *fakeAPI) WithdrawLoanRequest(ctx context.Context, _ string, _ int64) error {
	if err := f.record(ctx, "withdraw loan request"); err != nil {
		return err
	}
	return f.writeErr
}

func (f *fakeAPI) ListPayments(ctx context.Context, _ string) ([]domain.Payment, error) {
	if err := f.record(ctx, "list payments"); err != nil {
		return nil, err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.payments, nil
}

func (f *fakeAPI) CreatePayment(ctx context.Context, _ string, in domain.PaymentInput) (*domain.Payment, error) {
	if err := f.record(ctx, "create payment"); err != nil {
		return nil, err
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	p := *f.createdPayment
	p.Loan = in.Loan
	return &p, nil
}

func (f *fakeAPI) GetFunds(ctx context.Context, _ string) (*domain.FundOverview, error) {
	if err := f.record(ctx, "get funds"); err != nil {
		return nil, err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.funds, nil
}

func (f *fakeAPI) AddFunds(ctx context.Context, _ string, _ domain.FundInput) (*domain.Fund, error) {
	if err := f.record(ctx, "add funds"); err != nil {
		return nil, err
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return f.fund, nil
}

func (f *fakeAPI) ListPendingRequests(ctx context.Context, _ string) ([]domain.LoanRequest, error) {
	if err := f.record(ctx, "list pending"); err != nil {
		return nil, err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.pending, nil
}

func (f *fakeAPI) ApproveLoan(ctx context.Context, _ string, _ domain.ApprovalInput) (*domain.LoanAgreement, error) {
	if err := f.record(ctx, "approve loan"); err != nil {
		return nil, err
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return f.agreement, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context, _ string) ([]domain.BankUser, error) {
	if err := f.record(ctx, "list users"); err != nil {
		return nil, err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.users, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, _ string, _ int64) error {
	if err := f.record(ctx, "delete user"); err != nil {
		return err
	}
	return f.writeErr
}

func (f *fakeAPI) Ping(ctx context.Context) error {
	if err := f.record(ctx, "ping"); err != nil {
		return err
	}
	return f.pingErr
}

var insufficientFunds = &api.APIError{Status: 400, Message: "insufficient funds"}
