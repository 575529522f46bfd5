package handlers

import (
	"strings"

	"bankloan-web/internal/adapters/http/middleware"
	"bankloan-web/internal/core/domain"
	"bankloan-web/internal/core/services"
	"bankloan-web/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Inline validation messages
const (
	msgInvalidAmount = "Please enter a valid amount."
	msgInvalidLoan   = "Please choose a loan to pay."
	msgInvalidForm   = "Please fill in every field."
)

// BankAPI is everything the dashboards call
type BankAPI interface {
	services.CustomerAPI
	services.ProviderAPI
	services.EmployeeAPI
}

// DashboardHandler serves the three role dashboards. Every form posts,
// updates the mounted view and redirects back to it.
type DashboardHandler struct {
	nav *services.Navigator
	api BankAPI
	log *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(nav *services.Navigator, api BankAPI, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{nav: nav, api: api, log: log}
}

// LoanRequestForm is the customer's loan request form
type LoanRequestForm struct {
	LoanAmount      string `form:"loan_amount"`
	TermsConditions string `form:"terms_conditions"`
}

// PaymentForm is the customer's payment form
type PaymentForm struct {
	Loan          int64  `form:"loan"`
	PaymentAmount string `form:"payment_amount"`
}

// FundForm is the provider's add-fund form
type FundForm struct {
	TotalFunds string `form:"total_funds"`
}

// ApprovalForm is the employee's approval form
type ApprovalForm struct {
	AgreementID       int64  `form:"agreement_id"`
	InterestRate      string `form:"interest_rate"`
	RepaymentDeadline string `form:"repayment_deadline"`
	Lender            string `form:"lender"`
	MinPayment        string `form:"min_payment"`
	MaxPayment        string `form:"max_payment"`
}

// ---- Customer ----

// Customer renders the customer dashboard.
// ?loan=<id> opens the payment form, ?payments=toggle flips the history,
// ?refresh=1 remounts the view.
func (h *DashboardHandler) Customer(c *fiber.Ctx) error {
	d := h.customer(c, c.QueryBool("refresh"))

	if c.Query("payments") == "toggle" {
		d.TogglePayments()
		return c.Redirect(services.RouteCustomerDashboard, fiber.StatusSeeOther)
	}
	if id := c.QueryInt("loan"); id > 0 {
		d.SelectLoan(int64(id))
	}

	return response.Page(c, "customer", fiber.Map{
		"Title":   "Customer Dashboard",
		"Session": middleware.SessionFrom(c),
		"Dash":    d.Snapshot(),
	})
}

// SubmitLoanRequest posts a new loan request
func (h *DashboardHandler) SubmitLoanRequest(c *fiber.Ctx) error {
	d := h.customer(c, false)

	var form LoanRequestForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	amount, err := domain.ParseAmount(form.LoanAmount)
	switch {
	case err != nil:
		d.ShowError(msgInvalidAmount)
	case strings.TrimSpace(form.TermsConditions) == "":
		d.ShowError(msgInvalidForm)
	default:
		_ = d.SubmitLoanRequest(domain.LoanRequestInput{
			LoanAmount:      amount,
			TermsConditions: form.TermsConditions,
		})
	}
	return c.Redirect(services.RouteCustomerDashboard, fiber.StatusSeeOther)
}

// WithdrawLoanRequest deletes one of the customer's pending requests
func (h *DashboardHandler) WithdrawLoanRequest(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.ErrBadRequest
	}
	d := h.customer(c, false)
	_ = d.WithdrawLoanRequest(int64(id))
	return c.Redirect(services.RouteCustomerDashboard, fiber.StatusSeeOther)
}

// SubmitPayment pays into an agreement
func (h *DashboardHandler) SubmitPayment(c *fiber.Ctx) error {
	d := h.customer(c, false)

	var form PaymentForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	amount, err := domain.ParseAmount(form.PaymentAmount)
	switch {
	case err != nil:
		d.ShowError(msgInvalidAmount)
	case form.Loan <= 0 && d.Snapshot().SelectedLoan == nil:
		d.ShowError(msgInvalidLoan)
	default:
		_ = d.SubmitPayment(domain.PaymentInput{Loan: form.Loan, PaymentAmount: amount})
	}
	return c.Redirect(services.RouteCustomerDashboard, fiber.StatusSeeOther)
}

func (h *DashboardHandler) customer(c *fiber.Ctx, refresh bool) *services.CustomerDashboard {
	token := middleware.SessionFrom(c).Token
	d, _ := services.Visit(h.nav, services.RouteCustomerDashboard, refresh, func(s *services.ViewScope) *services.CustomerDashboard {
		return services.NewCustomerDashboard(s, h.api, token, h.log)
	})
	d.Scope().Load(d.Load)
	return d
}

// ---- Provider ----

// Provider renders the provider dashboard. ?refresh=1 remounts the view.
func (h *DashboardHandler) Provider(c *fiber.Ctx) error {
	d := h.provider(c, c.QueryBool("refresh"))
	return response.Page(c, "provider", fiber.Map{
		"Title":   "Provider Dashboard",
		"Session": middleware.SessionFrom(c),
		"Dash":    d.Snapshot(),
	})
}

// AddFunds deposits into the provider's fund
func (h *DashboardHandler) AddFunds(c *fiber.Ctx) error {
	d := h.provider(c, false)

	var form FundForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	amount, err := domain.ParseAmount(form.TotalFunds)
	if err != nil {
		d.ShowError(msgInvalidAmount)
	} else {
		_ = d.AddFunds(domain.FundInput{TotalFunds: amount})
	}
	return c.Redirect(services.RouteProviderDashboard, fiber.StatusSeeOther)
}

func (h *DashboardHandler) provider(c *fiber.Ctx, refresh bool) *services.ProviderDashboard {
	token := middleware.SessionFrom(c).Token
	d, _ := services.Visit(h.nav, services.RouteProviderDashboard, refresh, func(s *services.ViewScope) *services.ProviderDashboard {
		return services.NewProviderDashboard(s, h.api, token, h.log)
	})
	d.Scope().Load(d.Load)
	return d
}

// ---- Employee ----

// Employee renders the employee dashboard.
// ?approve=<id> opens the approval form, ?refresh=1 remounts the view.
func (h *DashboardHandler) Employee(c *fiber.Ctx) error {
	d := h.employee(c, c.QueryBool("refresh"))
	if id := c.QueryInt("approve"); id > 0 {
		d.Select(int64(id))
	}
	return response.Page(c, "employee", fiber.Map{
		"Title":   "Employee Dashboard",
		"Session": middleware.SessionFrom(c),
		"Dash":    d.Snapshot(),
	})
}

// ApproveLoan approves a pending request
func (h *DashboardHandler) ApproveLoan(c *fiber.Ctx) error {
	d := h.employee(c, false)

	var form ApprovalForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	in, ok := form.input()
	if !ok {
		d.ShowError(msgInvalidForm)
	} else {
		_ = d.Approve(in)
	}
	return c.Redirect(services.RouteEmployeeDashboard, fiber.StatusSeeOther)
}

// DeleteUser removes a user from the directory
func (h *DashboardHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.ErrBadRequest
	}
	d := h.employee(c, false)
	_ = d.DeleteUser(int64(id))
	return c.Redirect(services.RouteEmployeeDashboard, fiber.StatusSeeOther)
}

func (h *DashboardHandler) employee(c *fiber.Ctx, refresh bool) *services.EmployeeDashboard {
	token := middleware.SessionFrom(c).Token
	d, _ := services.Visit(h.nav, services.RouteEmployeeDashboard, refresh, func(s *services.ViewScope) *services.EmployeeDashboard {
		return services.NewEmployeeDashboard(s, h.api, token, h.log)
	})
	d.Scope().Load(d.Load)
	return d
}

func (f ApprovalForm) input() (domain.ApprovalInput, bool) {
	rate, err1 := domain.ParseAmount(f.InterestRate)
	minPay, err2 := domain.ParseAmount(f.MinPayment)
	maxPay, err3 := domain.ParseAmount(f.MaxPayment)
	if err1 != nil || err2 != nil || err3 != nil || f.AgreementID <= 0 ||
		strings.TrimSpace(f.RepaymentDeadline) == "" || strings.TrimSpace(f.Lender) == "" {
		return domain.ApprovalInput{}, false
	}
	return domain.ApprovalInput{
		AgreementID:       f.AgreementID,
		InterestRate:      rate,
		RepaymentDeadline: strings.TrimSpace(f.RepaymentDeadline),
		Lender:            strings.TrimSpace(f.Lender),
		MinPayment:        minPay,
		MaxPayment:        maxPay,
	}, true
}
