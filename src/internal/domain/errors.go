package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrRecordNotFound = errors.New("Record not found")
var ErrUnknownTransactionType = errors.New("Unknown transaction type")

// ValidationError collects every field-level problem found in a request
// instead of stopping at the first one.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// BalanceError means a resolved template produced movements whose debit
// and credit totals disagree beyond tolerance. This is a template bug,
// never bad user input, and the entry must not be persisted.
type BalanceError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Imbalance   decimal.Decimal
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("entry is not balanced: debit %s, credit %s, imbalance %s",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2), e.Imbalance.StringFixed(2))
}

// AllocationError means the sequence counter could not be reached or was
// contended beyond the configured bound. No number was consumed, so the
// caller may retry the submission as-is.
type AllocationError struct {
	Scope SequenceScope
	Err   error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate entry number for %s/%d: %v", e.Scope.CompanyCode, e.Scope.FiscalYear, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// PersistenceError means the storage write failed. Allocation happens in
// the same transaction as the write, so a failed commit releases its
// number and leaves nothing behind.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist entry: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// CollaboratorError reports a failure of an external collaborator
// (master-data, session, attachment store) with its name attached.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s collaborator failed: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
