package services

import (
	"bankloan-web/internal/core/domain"

	"go.uber.org/zap"
)

// ProviderDashboard holds a provider's fund and the loans drawn on it
type ProviderDashboard struct {
	scope *ViewScope
	api   ProviderAPI
	token string
	log   *zap.Logger

	fund  *domain.Fund
	loans []domain.LoanAgreement
	flash Flash
}

// ProviderSnapshot is a copy of the dashboard state for rendering
type ProviderSnapshot struct {
	Fund  *domain.Fund
	Loans []domain.LoanAgreement
	Flash Flash
}

func NewProviderDashboard(scope *ViewScope, api ProviderAPI, token string, log *zap.Logger) *ProviderDashboard {
	return &ProviderDashboard{scope: scope, api: api, token: token, log: log}
}

func (d *ProviderDashboard) Scope() *ViewScope { return d.scope }

// Load fetches the fund overview
func (d *ProviderDashboard) Load() {
	overview, err := d.api.GetFunds(d.scope.Context(), d.token)
	if err != nil {
		logReadFailure(d.log, d.scope, "funds", err)
		return
	}
	d.scope.Apply(func() {
		d.fund = overview.Fund
		d.loans = overview.Loans
	})
}

// AddFunds deposits amount; the returned fund replaces the shown one
func (d *ProviderDashboard) AddFunds(in domain.FundInput) error {
	fund, err := d.api.AddFunds(d.scope.Context(), d.token, in)
	if err != nil {
		logWriteFailure(d.log, d.scope, "funds", err)
		d.scope.Apply(func() { d.flash = failed(err, MsgFundFailed) })
		return err
	}
	d.scope.Apply(func() {
		d.fund = fund
		d.flash = succeeded(MsgFundAdded)
	})
	return nil
}

// ShowError sets an inline error without calling the API
func (d *ProviderDashboard) ShowError(msg string) {
	d.scope.Apply(func() { d.flash = Flash{Error: msg} })
}

// Snapshot copies the current state
func (d *ProviderDashboard) Snapshot() ProviderSnapshot {
	var s ProviderSnapshot
	d.scope.Read(func() {
		if d.fund != nil {
			f := *d.fund
			s.Fund = &f
		}
		s.Loans = append([]domain.LoanAgreement(nil), d.loans...)
		s.Flash = d.flash
	})
	return s
}
