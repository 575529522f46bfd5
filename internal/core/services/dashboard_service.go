package services

import (
	"bankloan-web/internal/adapters/api"

	"go.uber.org/zap"
)

// Feedback messages shown on the dashboards
const (
	MsgLoanRequestSubmitted = "Loan request submitted successfully!"
	MsgLoanRequestFailed    = "Failed to submit loan request"
	MsgLoanRequestWithdrawn = "Loan request withdrawn."
	MsgWithdrawFailed       = "Failed to withdraw loan request"
	MsgPaymentSubmitted     = "Payment submitted successfully!"
	MsgPaymentFailed        = "Failed to submit payment"
	MsgFundAdded            = "Fund added successfully!"
	MsgFundFailed           = "Failed to add fund."
	MsgLoanApproved         = "Loan approved successfully!"
	MsgApproveFailed        = "Failed to approve loan."
	MsgUserDeleted          = "User deleted successfully."
	MsgUserDeleteFailed     = "Failed to delete user."
)

// Flash is the outcome of the last write on a dashboard. At most one of
// the two fields is set.
type Flash struct {
	Success string
	Error   string
}

func succeeded(msg string) Flash { return Flash{Success: msg} }

// failed shows the server's own message when it sent one
func failed(err error, fallback string) Flash {
	return Flash{Error: api.MessageOr(err, fallback)}
}

// logReadFailure records a failed dashboard read. The view keeps whatever
// it already had, empty on first load.
func logReadFailure(log *zap.Logger, scope *ViewScope, what string, err error) {
	if api.IsCanceled(err) || !scope.Mounted() {
		log.Debug("read dropped, view unmounted", zap.String("read", what), zap.String("view", scope.ID()))
		return
	}
	log.Warn("dashboard read failed", zap.String("read", what), zap.String("view", scope.ID()), zap.Error(err))
}

func logWriteFailure(log *zap.Logger, scope *ViewScope, what string, err error) {
	log.Warn("dashboard write failed", zap.String("write", what), zap.String("view", scope.ID()), zap.Error(err))
}
