package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the services. Handlers map them to HTTP
// responses in one place.
var (
	ErrNotFound            = errors.New("apperr: not found")
	ErrInvalidStatus       = errors.New("apperr: invalid status")
	ErrInvalidTransition   = errors.New("apperr: invalid status transition")
	ErrFeeExceedsGross     = errors.New("apperr: fee amount cannot exceed gross amount")
	ErrAlreadyRefunded     = errors.New("apperr: transaction already refunded")
	ErrCannotRefundRefund  = errors.New("apperr: cannot refund a refund transaction")
	ErrInvalidAmount       = errors.New("apperr: amount must be non-negative with at most 2 decimal places")
	ErrInvalidMethod       = errors.New("apperr: invalid payment method")
	ErrInvalidInput        = errors.New("apperr: invalid input")
	ErrConflict            = errors.New("apperr: concurrent modification")
	ErrTierLimit           = errors.New("apperr: tier item limit reached")
	ErrProRequired         = errors.New("apperr: pro tier required")
	ErrInvoiceNotPayable   = errors.New("apperr: invoice must be sent before payment")
	ErrPaymentsUnavailable = errors.New("apperr: payment provider not configured")
	ErrInvalidSignature    = errors.New("apperr: invalid webhook signature")
)

// Codes rendered in the "error" field of API responses.
const (
	CodeInvalidStatus     = "invalid_status"
	CodeInvalidTransition = "invalid_transition"
)

// TransitionError is returned by the state machines. It carries everything a
// client needs to recover: where the entity is, where it was asked to go and
// where it may go instead.
type TransitionError struct {
	Entity        string
	Code          string
	Current       string
	Target        string
	Allowed       []string
	ValidStatuses []string
}

// NewInvalidStatus reports a target that is not a status of the entity at all.
func NewInvalidStatus(entity, current, target string, valid []string) *TransitionError {
	return &TransitionError{
		Entity:        entity,
		Code:          CodeInvalidStatus,
		Current:       current,
		Target:        target,
		ValidStatuses: valid,
	}
}

// NewInvalidTransition reports a known status that is not reachable from current.
func NewInvalidTransition(entity, current, target string, allowed []string) *TransitionError {
	return &TransitionError{
		Entity:  entity,
		Code:    CodeInvalidTransition,
		Current: current,
		Target:  target,
		Allowed: allowed,
	}
}

func (e *TransitionError) Error() string {
	if e.Code == CodeInvalidStatus {
		return fmt.Sprintf("invalid %s status '%s'. Must be one of: %s",
			e.Entity, e.Target, strings.Join(e.ValidStatuses, ", "))
	}
	allowed := "none (terminal state)"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("cannot transition %s from '%s' to '%s'. Allowed: %s",
		e.Entity, e.Current, e.Target, allowed)
}

// Is lets errors.Is match a TransitionError against ErrInvalidStatus or
// ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	switch target {
	case ErrInvalidStatus:
		return e.Code == CodeInvalidStatus
	case ErrInvalidTransition:
		return e.Code == CodeInvalidTransition
	}
	return false
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is or wraps ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
