package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bankloan-web/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mountCustomer(t *testing.T, f *fakeAPI) (*CustomerDashboard, *Navigator) {
	t.Helper()
	nav := NewNavigator(context.Background(), zap.NewNop())
	d, fresh := Visit(nav, RouteCustomerDashboard, false, func(s *ViewScope) *CustomerDashboard {
		return NewCustomerDashboard(s, f, "tok", zap.NewNop())
	})
	require.True(t, fresh)
	return d, nav
}

func customerAPI() *fakeAPI {
	return &fakeAPI{
		overview: &domain.LoanOverview{
			LoanRequests: []domain.LoanRequest{
				{ApplicationID: 1, LoanAmount: 100, TermsConditions: "a"},
				{ApplicationID: 2, LoanAmount: 200, TermsConditions: "b"},
			},
			Loans: []domain.LoanAgreement{{AgreementID: 7, MinPayment: 10, MaxPayment: 100}},
		},
		payments:       []domain.Payment{{ID: 1, Loan: 7, PaymentAmount: 10}},
		createdRequest: &domain.LoanRequest{ApplicationID: 3, LoanAmount: 300, TermsConditions: "c"},
		createdPayment: &domain.Payment{ID: 2, PaymentAmount: 50},
	}
}

func TestCustomerDashboard_Load(t *testing.T) {
	f := customerAPI()
	d, _ := mountCustomer(t, f)

	d.Load()
	snap := d.Snapshot()
	assert.Len(t, snap.LoanRequests, 2)
	assert.Len(t, snap.Loans, 1)
	assert.Len(t, snap.Payments, 1)
	assert.Equal(t, []string{"list loan requests", "list payments"}, f.Calls())
}

func TestCustomerDashboard_LoadFailureLeavesEmpty(t *testing.T) {
	f := customerAPI()
	f.readErr = errors.New("connection refused")
	d, _ := mountCustomer(t, f)

	d.Load()
	snap := d.Snapshot()
	assert.Empty(t, snap.LoanRequests)
	assert.Empty(t, snap.Payments)
	assert.Equal(t, Flash{}, snap.Flash)
}

func TestCustomerDashboard_SubmitLoanRequest(t *testing.T) {
	f := customerAPI()
	d, _ := mountCustomer(t, f)
	d.Load()

	require.NoError(t, d.SubmitLoanRequest(domain.LoanRequestInput{LoanAmount: 300, TermsConditions: "c"}))
	snap := d.Snapshot()
	require.Len(t, snap.LoanRequests, 3)
	assert.Equal(t, int64(3), snap.LoanRequests[2].ApplicationID)
	assert.Equal(t, MsgLoanRequestSubmitted, snap.Flash.Success)
	assert.Empty(t, snap.Flash.Error)

	f.writeErr = errors.New("boom")
	assert.Error(t, d.SubmitLoanRequest(domain.LoanRequestInput{LoanAmount: 1}))
	snap = d.Snapshot()
	assert.Len(t, snap.LoanRequests, 3)
	assert.Equal(t, Flash{Error: MsgLoanRequestFailed}, snap.Flash)
}

func TestCustomerDashboard_Withdraw(t *testing.T) {
	f := customerAPI()
	d, _ := mountCustomer(t, f)
	d.Load()

	require.NoError(t, d.WithdrawLoanRequest(1))
	snap := d.Snapshot()
	require.Len(t, snap.LoanRequests, 1)
	assert.Equal(t, int64(2), snap.LoanRequests[0].ApplicationID)
	assert.Equal(t, MsgLoanRequestWithdrawn, snap.Flash.Success)
}

func TestCustomerDashboard_Payments(t *testing.T) {
	f := customerAPI()
	d, _ := mountCustomer(t, f)
	d.Load()

	d.SelectLoan(99)
	assert.Nil(t, d.Snapshot().SelectedLoan)

	d.SelectLoan(7)
	require.NotNil(t, d.Snapshot().SelectedLoan)

	require.NoError(t, d.SubmitPayment(domain.PaymentInput{PaymentAmount: 50}))
	snap := d.Snapshot()
	require.Len(t, snap.Payments, 2)
	assert.Equal(t, int64(7), snap.Payments[1].Loan)
	assert.Nil(t, snap.SelectedLoan)
	assert.Equal(t, MsgPaymentSubmitted, snap.Flash.Success)

	assert.False(t, snap.ShowPayments)
	d.TogglePayments()
	assert.True(t, d.Snapshot().ShowPayments)
	d.TogglePayments()
	assert.False(t, d.Snapshot().ShowPayments)
}

func TestCustomerDashboard_ResponseAfterUnmountIsDropped(t *testing.T) {
	f := customerAPI()
	f.gate = make(chan struct{})
	d, nav := mountCustomer(t, f)

	done := make(chan struct{})
	go func() {
		d.Load()
		close(done)
	}()

	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	nav.Leave()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("load did not stop after unmount")
	}
	assert.Empty(t, d.Snapshot().LoanRequests)
	assert.Equal(t, []string{"list loan requests", "list payments"}, f.Calls())
}

func TestCustomerDashboard_WriteDuringInitialLoadIsKept(t *testing.T) {
	f := customerAPI()
	f.gate = make(chan struct{})
	d, _ := mountCustomer(t, f)

	go d.Scope().Load(d.Load)
	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	submitted := make(chan error, 1)
	go func() {
		d.Scope().Load(d.Load)
		submitted <- d.SubmitLoanRequest(domain.LoanRequestInput{LoanAmount: 300, TermsConditions: "c"})
	}()

	// the writer waits behind the running load
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"list loan requests"}, f.Calls())

	close(f.gate)
	select {
	case err := <-submitted:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("submit never finished")
	}

	snap := d.Snapshot()
	require.Len(t, snap.LoanRequests, 3)
	assert.Equal(t, int64(3), snap.LoanRequests[2].ApplicationID)
	assert.Equal(t, []string{"list loan requests", "list payments", "create loan request"}, f.Calls())
}

func TestProviderDashboard(t *testing.T) {
	f := &fakeAPI{
		funds: &domain.FundOverview{
			Fund:  &domain.Fund{Lender: 3, TotalFunds: 1000},
			Loans: []domain.LoanAgreement{{AgreementID: 1}},
		},
		fund: &domain.Fund{Lender: 3, TotalFunds: 1500},
	}
	nav := NewNavigator(context.Background(), zap.NewNop())
	d, _ := Visit(nav, RouteProviderDashboard, false, func(s *ViewScope) *ProviderDashboard {
		return NewProviderDashboard(s, f, "tok", zap.NewNop())
	})

	d.Load()
	snap := d.Snapshot()
	require.NotNil(t, snap.Fund)
	assert.Equal(t, domain.Amount(1000), snap.Fund.TotalFunds)
	assert.Len(t, snap.Loans, 1)

	require.NoError(t, d.AddFunds(domain.FundInput{TotalFunds: 500}))
	snap = d.Snapshot()
	assert.Equal(t, domain.Amount(1500), snap.Fund.TotalFunds)
	assert.Equal(t, MsgFundAdded, snap.Flash.Success)

	f.writeErr = insufficientFunds
	assert.Error(t, d.AddFunds(domain.FundInput{TotalFunds: 1}))
	snap = d.Snapshot()
	assert.Equal(t, domain.Amount(1500), snap.Fund.TotalFunds)
	assert.Equal(t, Flash{Error: "insufficient funds"}, snap.Flash)

	f.writeErr = errors.New("timeout")
	assert.Error(t, d.AddFunds(domain.FundInput{TotalFunds: 1}))
	assert.Equal(t, Flash{Error: MsgFundFailed}, d.Snapshot().Flash)
}

func TestEmployeeDashboard(t *testing.T) {
	f := &fakeAPI{
		pending: []domain.LoanRequest{
			{ApplicationID: 4, LoanAmount: 20},
			{ApplicationID: 5, LoanAmount: 30},
		},
		users:     []domain.BankUser{{ID: 1, Username: "bob"}, {ID: 2, Username: "carol"}},
		agreement: &domain.LoanAgreement{AgreementID: 5, InterestRate: 0.05},
	}
	nav := NewNavigator(context.Background(), zap.NewNop())
	d, _ := Visit(nav, RouteEmployeeDashboard, false, func(s *ViewScope) *EmployeeDashboard {
		return NewEmployeeDashboard(s, f, "tok", zap.NewNop())
	})

	d.Load()
	snap := d.Snapshot()
	assert.Len(t, snap.Pending, 2)
	assert.Len(t, snap.Users, 2)

	d.Select(5)
	require.NotNil(t, d.Snapshot().Selected)

	require.NoError(t, d.Approve(domain.ApprovalInput{AgreementID: 5, InterestRate: 0.05, Lender: "3"}))
	snap = d.Snapshot()
	require.Len(t, snap.Pending, 1)
	assert.Equal(t, int64(4), snap.Pending[0].ApplicationID)
	require.Len(t, snap.Approved, 1)
	assert.Nil(t, snap.Selected)
	assert.Equal(t, MsgLoanApproved, snap.Flash.Success)

	f.writeErr = insufficientFunds
	assert.Error(t, d.Approve(domain.ApprovalInput{AgreementID: 4}))
	snap = d.Snapshot()
	assert.Len(t, snap.Pending, 1)
	assert.Equal(t, "insufficient funds", snap.Flash.Error)

	f.writeErr = nil
	require.NoError(t, d.DeleteUser(1))
	snap = d.Snapshot()
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "carol", snap.Users[0].Username)
	assert.Equal(t, MsgUserDeleted, snap.Flash.Success)
}
