// Package api is the HTTP client for the remote loan API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"bankloan-web/internal/core/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// API paths
const (
	PathToken        = "/api/token/"
	PathLoanRequests = "/api/loan-requests/"
	PathLoanPayments = "/api/loan-payments/"
	PathLoanApproves = "/api/loan-approves/"
	PathFunds        = "/api/funds/"
	PathUsers        = "/api/users/"
)

// Client talks to the loan API with bearer-token authentication
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a new API client. timeout bounds every single call.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var out domain.LoginResult
	if err := c.do(ctx, http.MethodPost, PathToken, "", body, &out); err != nil {
		return nil, err
	}
	if out.Access == "" {
		return nil, fmt.Errorf("%w: login response has no access token", ErrUnexpectedResponse)
	}
	return &out, nil
}

// ListLoanRequests returns the caller's loan requests and agreements
func (c *Client) ListLoanRequests(ctx context.Context, token string) (*domain.LoanOverview, error) {
	var out domain.LoanOverview
	if err := c.do(ctx, http.MethodGet, PathLoanRequests, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLoanRequest submits a new loan request
func (c *Client) CreateLoanRequest(ctx context.Context, token string, in domain.LoanRequestInput) (*domain.LoanRequest, error) {
	var out domain.LoanRequest
	if err := c.do(ctx, http.MethodPost, PathLoanRequests, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WithdrawLoanRequest deletes an unapproved loan request
func (c *Client) WithdrawLoanRequest(ctx context.Context, token string, id int64) error {
	body := map[string]int64{"loanRequestId": id}
	return c.do(ctx, http.MethodDelete, PathLoanRequests, token, body, nil)
}

// ListPayments returns the caller's payment history
func (c *Client) ListPayments(ctx context.Context, token string) ([]domain.Payment, error) {
	var out []domain.Payment
	if err := c.do(ctx, http.MethodGet, PathLoanPayments, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePayment submits a payment against an agreement
func (c *Client) CreatePayment(ctx context.Context, token string, in domain.PaymentInput) (*domain.Payment, error) {
	var out domain.Payment
	if err := c.do(ctx, http.MethodPost, PathLoanPayments, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPendingRequests returns the loan requests awaiting approval
func (c *Client) ListPendingRequests(ctx context.Context, token string) ([]domain.LoanRequest, error) {
	var out []domain.LoanRequest
	if err := c.do(ctx, http.MethodGet, PathLoanApproves, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveLoan turns a loan request into an agreement
func (c *Client) ApproveLoan(ctx context.Context, token string, in domain.ApprovalInput) (*domain.LoanAgreement, error) {
	var out domain.LoanAgreement
	if err := c.do(ctx, http.MethodPost, PathLoanApproves, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFunds returns the provider's fund and loans
func (c *Client) GetFunds(ctx context.Context, token string) (*domain.FundOverview, error) {
	var out domain.FundOverview
	if err := c.do(ctx, http.MethodGet, PathFunds, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddFunds deposits into the provider's fund and returns the updated fund
func (c *Client) AddFunds(ctx context.Context, token string, in domain.FundInput) (*domain.Fund, error) {
	var out domain.Fund
	if err := c.do(ctx, http.MethodPost, PathFunds, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns the user directory (employees only)
func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.BankUser, error) {
	var out []domain.BankUser
	if err := c.do(ctx, http.MethodGet, PathUsers, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes a user (employees only)
func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	body := map[string]int64{"id": id}
	return c.do(ctx, http.MethodDelete, PathUsers, token, body, nil)
}

// Ping checks that the API answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathToken, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

// do performs one JSON call. out may be nil.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

// IsCanceled reports whether err came from a cancelled context
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
