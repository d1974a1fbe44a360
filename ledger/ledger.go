// Package ledger is the balance-settlement engine: it validates expense
// splits, maintains the derived friend/group balance tables and the group
// running totals, and reverses those effects when expenses are deleted or
// edited. All writes to friend_balances, group_balances and
// groups.group_expense go through this package.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"splitledger-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger owns the expense lifecycle. The database handle is injected at
// construction; every operation runs inside one transaction so the expense
// row, the group total and the distributed balance deltas land together or
// not at all.
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ExpenseInput is a fully-specified expense submission.
type ExpenseInput struct {
	OwnerID     uuid.UUID
	GroupID     *uuid.UUID // nil for a non-group expense
	Amount      float64
	Description string
	Date        time.Time // zero value defaults to now
	Splits      []SplitShare
}

// CreateExpense validates the splits, persists the expense and its split
// rows, bumps the group running total for grouped expenses and distributes
// the balance deltas, all in one transaction.
func (l *Ledger) CreateExpense(in ExpenseInput) (uuid.UUID, error) {
	if err := ValidateSplits(in.Amount, in.Splits); err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = l.createInTx(tx, in)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// DeleteExpense soft-deletes the expense and reverses its distribution:
// the split balances are negated, distributed (pushing every prior delta
// the opposite direction) and negated back so the stored rows still show
// the original paid/owed/balance of the deleted expense.
func (l *Ledger) DeleteExpense(id uuid.UUID) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		return l.deleteInTx(tx, id)
	})
}

// EditExpense is delete-then-recreate: the old expense is soft-deleted and
// its distribution reversed, then a brand-new expense with a new id is
// created and distributed. Both halves run in the same transaction, and
// strictly in that order, since they mutate the same balance rows.
func (l *Ledger) EditExpense(id uuid.UUID, in ExpenseInput) (uuid.UUID, error) {
	if err := ValidateSplits(in.Amount, in.Splits); err != nil {
		return uuid.Nil, err
	}

	var newID uuid.UUID
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := l.deleteInTx(tx, id); err != nil {
			return err
		}
		var err error
		newID, err = l.createInTx(tx, in)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}
	return newID, nil
}

func (l *Ledger) createInTx(tx *gorm.DB, in ExpenseInput) (uuid.UUID, error) {
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	expense := models.Expense{
		UserID:      in.OwnerID,
		GroupID:     in.GroupID,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
	}
	if err := tx.Create(&expense).Error; err != nil {
		return uuid.Nil, fmt.Errorf("create expense: %w", err)
	}

	for _, s := range in.Splits {
		balance := decimal.NewFromFloat(s.AmountPaid).Sub(decimal.NewFromFloat(s.AmountOwed))
		split := models.ExpenseSplit{
			ExpenseID:  expense.ID,
			UserID:     s.UserID,
			AmountPaid: s.AmountPaid,
			AmountOwed: s.AmountOwed,
			Balance:    balance.InexactFloat64(),
		}
		if err := tx.Create(&split).Error; err != nil {
			return uuid.Nil, fmt.Errorf("create expense split: %w", err)
		}
	}

	if in.GroupID != nil {
		if err := addToGroupExpense(tx, *in.GroupID, in.Amount); err != nil {
			return uuid.Nil, err
		}
	}

	if err := l.runDistribution(tx, expense.ID, in.GroupID); err != nil {
		return uuid.Nil, err
	}

	return expense.ID, nil
}

func (l *Ledger) deleteInTx(tx *gorm.DB, id uuid.UUID) error {
	var expense models.Expense
	if err := tx.First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "expense", ID: id}
		}
		return fmt.Errorf("load expense: %w", err)
	}
	if expense.IsDeleted {
		return &NotFoundError{Resource: "expense", ID: id}
	}

	if err := tx.Model(&expense).Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("mark expense deleted: %w", err)
	}

	if expense.GroupID != nil {
		if err := addToGroupExpense(tx, *expense.GroupID, -expense.Amount); err != nil {
			return err
		}
	}

	// Flip the split balances, distribute the inverse deltas, then flip
	// back so the stored rows keep the expense's true original values.
	if err := negateSplitBalances(tx, id); err != nil {
		return err
	}
	if err := l.runDistribution(tx, id, expense.GroupID); err != nil {
		return err
	}
	return negateSplitBalances(tx, id)
}

// runDistribution applies the balance deltas for an expense. A missing
// counterparty is the correct no-op outcome for degenerate split sets and
// is logged rather than surfaced.
func (l *Ledger) runDistribution(tx *gorm.DB, expenseID uuid.UUID, groupID *uuid.UUID) error {
	err := distribute(tx, expenseID, groupID)
	if err == nil {
		return nil
	}
	var nc *NoCounterpartyError
	if errors.As(err, &nc) {
		slog.Info("expense has no counterparties, nothing to distribute", "expense_id", expenseID)
		return nil
	}
	return err
}

func negateSplitBalances(tx *gorm.DB, expenseID uuid.UUID) error {
	err := tx.Model(&models.ExpenseSplit{}).
		Where("expense_id = ?", expenseID).
		Update("balance", gorm.Expr("-1 * balance")).Error
	if err != nil {
		return fmt.Errorf("negate split balances: %w", err)
	}
	return nil
}

// addToGroupExpense adjusts the group's denormalized running total by
// delta. A missing group means the caller referenced a group that was
// never created.
func addToGroupExpense(tx *gorm.DB, groupID uuid.UUID, delta float64) error {
	res := tx.Model(&models.Group{}).
		Where("id = ?", groupID).
		Update("group_expense", gorm.Expr("group_expense + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update group expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "group", ID: groupID}
	}
	return nil
}
