package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Role represents the kind of user a session belongs to
type Role string

const (
	RoleProvider Role = "provider"
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// Roles lists every known role in display order
var Roles = []Role{RoleProvider, RoleCustomer, RoleEmployee}

// ParseRole maps a role string to a known Role. Matching is exact:
// "Customer" and " customer" are not roles.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleProvider, RoleCustomer, RoleEmployee:
		return r, true
	}
	return "", false
}

// Title returns the role name as shown on pages
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Session is the client's single authentication state. The zero value is anonymous.
type Session struct {
	Token    string
	Role     Role
	Username string
}

// IsAuthenticated reports whether the session carries a decoded token
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.Role != ""
}

// LoginResult is the credential exchange response
type LoginResult struct {
	Access string `json:"access"`
	Role   string `json:"role"`
}

// UnmarshalJSON accepts the role as a string or omitted
func (l *LoginResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Access string          `json:"access"`
		Role   json.RawMessage `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Access = raw.Access
	l.Role = ""
	if len(raw.Role) > 0 && raw.Role[0] == '"' {
		return json.Unmarshal(raw.Role, &l.Role)
	}
	return nil
}

// LoanRequest represents a loan application as returned by the API
type LoanRequest struct {
	ApplicationID   int64  `json:"application_id"`
	Borrower        int64  `json:"borrower,omitempty"`
	ApplicationDate string `json:"application_date,omitempty"`
	LoanAmount      Amount `json:"loan_amount"`
	TermsConditions string `json:"terms_conditions"`
	Approved        bool   `json:"approved"`
}

// LoanAgreement represents an approved loan
type LoanAgreement struct {
	AgreementID       int64  `json:"agreement_id"`
	ApprovalDate      string `json:"approval_date,omitempty"`
	LoanAmount        Amount `json:"loan_amount"`
	InterestRate      Amount `json:"interest_rate"`
	RepaymentDeadline string `json:"repayment_deadline"`
	Lender            int64  `json:"lender,omitempty"`
	FullyPaid         bool   `json:"fully_paid"`
	MinPayment        Amount `json:"min_payment"`
	MaxPayment        Amount `json:"max_payment"`
}

// InterestPercent returns the interest rate as a percentage
func (a LoanAgreement) InterestPercent() float64 {
	return float64(a.InterestRate) * 100
}

// LoanOverview is the combined loan-request listing
type LoanOverview struct {
	LoanRequests []LoanRequest   `json:"loanRequests"`
	Loans        []LoanAgreement `json:"loans"`
}

// Payment represents a loan payment
type Payment struct {
	ID            int64  `json:"id"`
	Loan          int64  `json:"loan"`
	PaymentAmount Amount `json:"payment_amount"`
	PaymentDate   string `json:"payment_date"`
}

// UnmarshalJSON accepts both "id" and "payment_id" as the identifier
func (p *Payment) UnmarshalJSON(data []byte) error {
	type alias Payment
	var raw struct {
		alias
		PaymentID *int64 `json:"payment_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Payment(raw.alias)
	if p.ID == 0 && raw.PaymentID != nil {
		p.ID = *raw.PaymentID
	}
	return nil
}

// Fund represents a provider's funding account
type Fund struct {
	Lender     int64  `json:"lender"`
	TotalFunds Amount `json:"total_funds"`
}

// FundOverview is the provider funds listing
type FundOverview struct {
	Fund  *Fund           `json:"fund"`
	Loans []LoanAgreement `json:"loans"`
}

// BankUser is an entry of the employee user directory
type BankUser struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Role     json.RawMessage `json:"role"`
}

// RoleName renders the API role code as a role name
func (u BankUser) RoleName() string {
	raw := bytes.TrimSpace(u.Role)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	code, err := strconv.Atoi(string(raw))
	if err != nil {
		return string(raw)
	}
	switch code {
	case 1:
		return string(RoleProvider)
	case 2:
		return string(RoleCustomer)
	case 3:
		return string(RoleEmployee)
	}
	return fmt.Sprintf("role %d", code)
}

// LoanRequestInput is the body of a new loan request
type LoanRequestInput struct {
	LoanAmount      Amount `json:"loan_amount"`
	TermsConditions string `json:"terms_conditions"`
}

// PaymentInput is the body of a new payment
type PaymentInput struct {
	Loan          int64  `json:"loan"`
	PaymentAmount Amount `json:"payment_amount"`
}

// ApprovalInput is the body of a loan approval
type ApprovalInput struct {
	AgreementID       int64  `json:"agreement_id"`
	InterestRate      Amount `json:"interest_rate"`
	RepaymentDeadline string `json:"repayment_deadline"`
	Lender            string `json:"lender"`
	MinPayment        Amount `json:"min_payment"`
	MaxPayment        Amount `json:"max_payment"`
}

// FundInput is the body of a fund deposit
type FundInput struct {
	TotalFunds Amount `json:"total_funds"`
}
