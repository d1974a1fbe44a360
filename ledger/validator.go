package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tolerance is the absolute reconciliation tolerance between the declared
// expense amount and the split sums: one cent.
var Tolerance = decimal.NewFromFloat(0.01)

// SplitShare is one participant's paid/owed pair in an expense submission.
type SplitShare struct {
	UserID     uuid.UUID
	AmountPaid float64
	AmountOwed float64
}

// ValidateSplits checks that the per-participant owed and paid sums both
// reconcile with the declared amount within Tolerance. Summation uses
// decimals so many small splits cannot drift past the tolerance through
// float accumulation. An empty split set never reconciles with a nonzero
// amount and fails the same way.
func ValidateSplits(amount float64, splits []SplitShare) error {
	total := decimal.NewFromFloat(amount)

	owed := decimal.Zero
	paid := decimal.Zero
	for _, s := range splits {
		owed = owed.Add(decimal.NewFromFloat(s.AmountOwed))
		paid = paid.Add(decimal.NewFromFloat(s.AmountPaid))
	}

	if owed.Sub(total).Abs().GreaterThan(Tolerance) {
		return &ValidationError{Field: "owed", Expected: amount, Received: owed.InexactFloat64()}
	}
	if paid.Sub(total).Abs().GreaterThan(Tolerance) {
		return &ValidationError{Field: "paid", Expected: amount, Received: paid.InexactFloat64()}
	}
	return nil
}
