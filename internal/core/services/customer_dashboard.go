package services

import (
	"bankloan-web/internal/core/domain"

	"go.uber.org/zap"
)

// CustomerDashboard holds a customer's loan requests, agreements and
// payments for one mounted view.
type CustomerDashboard struct {
	scope *ViewScope
	api   CustomerAPI
	token string
	log   *zap.Logger

	loanRequests []domain.LoanRequest
	loans        []domain.LoanAgreement
	payments     []domain.Payment
	selectedLoan int64
	showPayments bool
	flash        Flash
}

// CustomerSnapshot is a copy of the dashboard state for rendering
type CustomerSnapshot struct {
	LoanRequests []domain.LoanRequest
	Loans        []domain.LoanAgreement
	Payments     []domain.Payment
	SelectedLoan *domain.LoanAgreement
	ShowPayments bool
	Flash        Flash
}

// NewCustomerDashboard creates an empty dashboard bound to scope
func NewCustomerDashboard(scope *ViewScope, api CustomerAPI, token string, log *zap.Logger) *CustomerDashboard {
	return &CustomerDashboard{scope: scope, api: api, token: token, log: log}
}

// Scope returns the view scope the dashboard is bound to
func (d *CustomerDashboard) Scope() *ViewScope { return d.scope }

// Load fetches loan requests, agreements and payments
func (d *CustomerDashboard) Load() {
	ctx := d.scope.Context()

	overview, err := d.api.ListLoanRequests(ctx, d.token)
	if err != nil {
		logReadFailure(d.log, d.scope, "loan requests", err)
	} else {
		d.scope.Apply(func() {
			d.loanRequests = overview.LoanRequests
			d.loans = overview.Loans
		})
	}

	payments, err := d.api.ListPayments(ctx, d.token)
	if err != nil {
		logReadFailure(d.log, d.scope, "payments", err)
		return
	}
	d.scope.Apply(func() { d.payments = payments })
}

// SubmitLoanRequest creates a loan request and appends it to the list
func (d *CustomerDashboard) SubmitLoanRequest(in domain.LoanRequestInput) error {
	created, err := d.api.CreateLoanRequest(d.scope.Context(), d.token, in)
	if err != nil {
		logWriteFailure(d.log, d.scope, "loan request", err)
		d.scope.Apply(func() { d.flash = failed(err, MsgLoanRequestFailed) })
		return err
	}
	d.scope.Apply(func() {
		d.loanRequests = append(d.loanRequests, *created)
		d.flash = succeeded(MsgLoanRequestSubmitted)
	})
	return nil
}

// WithdrawLoanRequest deletes a pending request and drops it from the list
func (d *CustomerDashboard) WithdrawLoanRequest(id int64) error {
	if err := d.api.WithdrawLoanRequest(d.scope.Context(), d.token, id); err != nil {
		logWriteFailure(d.log, d.scope, "withdraw", err)
		d.scope.Apply(func() { d.flash = failed(err, MsgWithdrawFailed) })
		return err
	}
	d.scope.Apply(func() {
		for i, r := range d.loanRequests {
			if r.ApplicationID == id {
				d.loanRequests = append(d.loanRequests[:i:i], d.loanRequests[i+1:]...)
				break
			}
		}
		d.flash = succeeded(MsgLoanRequestWithdrawn)
	})
	return nil
}

// SelectLoan picks the agreement the payment form pays into. Unknown ids
// clear the selection.
func (d *CustomerDashboard) SelectLoan(id int64) {
	d.scope.Apply(func() {
		d.selectedLoan = 0
		for _, l := range d.loans {
			if l.AgreementID == id {
				d.selectedLoan = id
				return
			}
		}
	})
}

// SubmitPayment pays into loan. A zero loan uses the selected agreement.
func (d *CustomerDashboard) SubmitPayment(in domain.PaymentInput) error {
	if in.Loan == 0 {
		d.scope.Read(func() { in.Loan = d.selectedLoan })
	}
	created, err := d.api.CreatePayment(d.scope.Context(), d.token, in)
	if err != nil {
		logWriteFailure(d.log, d.scope, "payment", err)
		d.scope.Apply(func() { d.flash = failed(err, MsgPaymentFailed) })
		return err
	}
	d.scope.Apply(func() {
		d.payments = append(d.payments, *created)
		d.selectedLoan = 0
		d.flash = succeeded(MsgPaymentSubmitted)
	})
	return nil
}

// TogglePayments shows or hides the payment history
func (d *CustomerDashboard) TogglePayments() {
	d.scope.Apply(func() { d.showPayments = !d.showPayments })
}

// ShowError sets an inline error without calling the API
func (d *CustomerDashboard) ShowError(msg string) {
	d.scope.Apply(func() { d.flash = Flash{Error: msg} })
}

// Snapshot copies the current state
func (d *CustomerDashboard) Snapshot() CustomerSnapshot {
	var s CustomerSnapshot
	d.scope.Read(func() {
		s.LoanRequests = append([]domain.LoanRequest(nil), d.loanRequests...)
		s.Loans = append([]domain.LoanAgreement(nil), d.loans...)
		s.Payments = append([]domain.Payment(nil), d.payments...)
		s.ShowPayments = d.showPayments
		s.Flash = d.flash
		for i := range d.loans {
			if d.selectedLoan != 0 && d.loans[i].AgreementID == d.selectedLoan {
				loan := d.loans[i]
				s.SelectedLoan = &loan
				break
			}
		}
	})
	return s
}
