package services

import (
	"bankloan-web/internal/core/domain"

	"go.uber.org/zap"
)

// EmployeeDashboard holds the approval queue and the user directory
type EmployeeDashboard struct {
	scope *ViewScope
	api   EmployeeAPI
	token string
	log   *zap.Logger

	pending  []domain.LoanRequest
	approved []domain.LoanAgreement
	users    []domain.BankUser
	selected int64
	flash    Flash
}

// EmployeeSnapshot is a copy of the dashboard state for rendering
type EmployeeSnapshot struct {
	Pending  []domain.LoanRequest
	Approved []domain.LoanAgreement
	Users    []domain.BankUser
	Selected *domain.LoanRequest
	Flash    Flash
}

func NewEmployeeDashboard(scope *ViewScope, api EmployeeAPI, token string, log *zap.Logger) *EmployeeDashboard {
	return &EmployeeDashboard{scope: scope, api: api, token: token, log: log}
}

func (d *EmployeeDashboard) Scope() *ViewScope { return d.scope }

// Load fetches pending requests and the user directory
func (d *EmployeeDashboard) Load() {
	ctx := d.scope.Context()

	pending, err := d.api.ListPendingRequests(ctx, d.token)
	if err != nil {
		logReadFailure(d.log, d.scope, "pending requests", err)
	} else {
		d.scope.Apply(func() { d.pending = pending })
	}

	users, err := d.api.ListUsers(ctx, d.token)
	if err != nil {
		logReadFailure(d.log, d.scope, "users", err)
		return
	}
	d.scope.Apply(func() { d.users = users })
}

// Select opens the approval form for a pending request. Unknown ids close it.
func (d *EmployeeDashboard) Select(id int64) {
	d.scope.Apply(func() {
		d.selected = 0
		for _, r := range d.pending {
			if r.ApplicationID == id {
				d.selected = id
				return
			}
		}
	})
}

// Approve turns a pending request into an agreement. On success the
// request leaves the pending list.
func (d *EmployeeDashboard) Approve(in domain.ApprovalInput) error {
	agreement, err := d.api.ApproveLoan(d.scope.Context(), d.token, in)
	if err != nil {
		logWriteFailure(d.log, d.scope, "approval", err)
		d.scope.Apply(func() { d.flash = failed(err, MsgApproveFailed) })
		return err
	}
	d.scope.Apply(func() {
		for i, r := range d.pending {
			if r.ApplicationID == in.AgreementID {
				d.pending = append(d.pending[:i:i], d.pending[i+1:]...)
				break
			}
		}
		d.approved = append(d.approved, *agreement)
		d.selected = 0
		d.flash = succeeded(MsgLoanApproved)
	})
	return nil
}

// DeleteUser removes a user from the directory
func (d *EmployeeDashboard) DeleteUser(id int64) error {
	if err := d.api.DeleteUser(d.scope.Context(), d.token, id); err != nil {
		logWriteFailure(d.log, d.scope, "delete user", err)
		d.scope.Apply(func() { d.flash = failed(err, MsgUserDeleteFailed) })
		return err
	}
	d.scope.Apply(func() {
		for i, u := range d.users {
			if u.ID == id {
				d.users = append(d.users[:i:i], d.users[i+1:]...)
				break
			}
		}
		d.flash = succeeded(MsgUserDeleted)
	})
	return nil
}

// ShowError sets an inline error without calling the API
func (d *EmployeeDashboard) ShowError(msg string) {
	d.scope.Apply(func() { d.flash = Flash{Error: msg} })
}

// Snapshot copies the current state
func (d *EmployeeDashboard) Snapshot() EmployeeSnapshot {
	var s EmployeeSnapshot
	d.scope.Read(func() {
		s.Pending = append([]domain.LoanRequest(nil), d.pending...)
		s.Approved = append([]domain.LoanAgreement(nil), d.approved...)
		s.Users = append([]domain.BankUser(nil), d.users...)
		s.Flash = d.flash
		for i := range d.pending {
			if d.selected != 0 && d.pending[i].ApplicationID == d.selected {
				r := d.pending[i]
				s.Selected = &r
				break
			}
		}
	})
	return s
}
