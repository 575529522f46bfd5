package services

import (
	"context"

	"bankloan-web/internal/core/domain"
	"bankloan-web/internal/pkg/token"
)

// Note: *api.Client implements every API interface below.

// TokenDecoder reads claims from an access token
type TokenDecoder interface {
	Decode(raw string) (*token.Claims, error)
}

// LoginAPI exchanges credentials for a token
type LoginAPI interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
}

// CustomerAPI is the part of the API the customer dashboard uses
type CustomerAPI interface {
	ListLoanRequests(ctx context.Context, token string) (*domain.LoanOverview, error)
	CreateLoanRequest(ctx context.Context, token string, in domain.LoanRequestInput) (*domain.LoanRequest, error)
	WithdrawLoanRequest(ctx context.Context, token string, id int64) error
	ListPayments(ctx context.Context, token string) ([]domain.Payment, error)
	CreatePayment(ctx context.Context, token string, in domain.PaymentInput) (*domain.Payment, error)
}

// ProviderAPI is the part of the API the provider dashboard uses
type ProviderAPI interface {
	GetFunds(ctx context.Context, token string) (*domain.FundOverview, error)
	AddFunds(ctx context.Context, token string, in domain.FundInput) (*domain.Fund, error)
}

// EmployeeAPI is the part of the API the employee dashboard uses
type EmployeeAPI interface {
	ListPendingRequests(ctx context.Context, token string) ([]domain.LoanRequest, error)
	ApproveLoan(ctx context.Context, token string, in domain.ApprovalInput) (*domain.LoanAgreement, error)
	ListUsers(ctx context.Context, token string) ([]domain.BankUser, error)
	DeleteUser(ctx context.Context, token string, id int64) error
}

// Pinger checks API reachability
type Pinger interface {
	Ping(ctx context.Context) error
}
