package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrZeroTotalOwed guards the distribution denominator. The validator makes
// this unreachable for well-formed expenses, but a malformed split set must
// fail loudly instead of pushing NaN into stored balances.
var ErrZeroTotalOwed = errors.New("total owed amount is zero, cannot distribute")

// ValidationError reports paid or owed totals that do not reconcile with
// the declared expense amount. Nothing is persisted when it is returned.
type ValidationError struct {
	Field    string // "owed" or "paid"
	Expected float64
	Received float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s amounts do not match the total expense: expected %.2f, received %.2f",
		e.Field, e.Expected, e.Received)
}

// NotFoundError reports a missing or already-deleted expense, group or user.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NoCounterpartyError means an expense has no creditor/debtor pairing to
// distribute. The lifecycle treats it as a benign no-op, not a failure.
type NoCounterpartyError struct {
	ExpenseID uuid.UUID
}

func (e *NoCounterpartyError) Error() string {
	return fmt.Sprintf("no creditors or debtors found for expense %s", e.ExpenseID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
