package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by the engines. Handlers map these to HTTP
// statuses in one place; use errors.Is to classify.
var (
	ErrNotFound                = errors.New("entity not found")
	ErrForbidden               = errors.New("actor not authorized for this entity")
	ErrAlreadyProcessed        = errors.New("voucher already processed")
	ErrInvalidStateTransition  = errors.New("invalid state transition")
	ErrInsufficientFunds       = errors.New("insufficient voucher balance")
	ErrInsufficientBonus       = errors.New("insufficient bonus balance")
	ErrInvalidRole             = errors.New("role precondition unmet")
	ErrInvalidSeller           = errors.New("seller must be a merchant")
	ErrExpired                 = errors.New("ticket type expired")
	ErrOutsidePayoutWindow     = errors.New("payout requests only accepted on the last day of the month")
	ErrValidation              = errors.New("validation failed")
	ErrTicketTypeDeleted       = errors.New("ticket type deleted")
	ErrRetryable               = errors.New("transient store contention, retry the operation")
	ErrSettlementAccount       = errors.New("settlement account misconfigured")
)

// InsufficientFundsError carries the shortfall details for logging and
// responses while still unwrapping to ErrInsufficientFunds.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
