package ledger

import (
	"fmt"

	"splitledger-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// distribute converts one expense's stored splits into pairwise balance
// deltas and applies them to friend_balances and, for grouped expenses, to
// the pre-seeded group_balances rows.
//
// Splits with balance > 0 are creditors, balance < 0 debtors, zero
// balances take no part. Each debtor's deficit is allocated across the
// creditors in proportion to each creditor's surplus:
//
//	share(d,c) = |d.balance| * c.balance / totalOwed
//
// where totalOwed is the sum of all debtor deficits. Per debtor the shares
// sum to its deficit and per creditor to its surplus, so the stored
// balances stay globally zero-sum per expense. Deleting an expense negates
// its split balances and re-runs this, which pushes every delta the
// opposite direction.
func distribute(tx *gorm.DB, expenseID uuid.UUID, groupID *uuid.UUID) error {
	var creditors, debtors []models.ExpenseSplit
	if err := tx.Where("expense_id = ? AND balance > 0", expenseID).Find(&creditors).Error; err != nil {
		return fmt.Errorf("load creditors: %w", err)
	}
	if err := tx.Where("expense_id = ? AND balance < 0", expenseID).Find(&debtors).Error; err != nil {
		return fmt.Errorf("load debtors: %w", err)
	}

	if len(creditors) == 0 || len(debtors) == 0 {
		return &NoCounterpartyError{ExpenseID: expenseID}
	}

	totalOwed := decimal.Zero
	for _, d := range debtors {
		totalOwed = totalOwed.Add(decimal.NewFromFloat(d.Balance).Neg())
	}
	if totalOwed.IsZero() {
		return ErrZeroTotalOwed
	}

	for _, d := range debtors {
		deficit := decimal.NewFromFloat(d.Balance).Neg()
		for _, c := range creditors {
			share := deficit.Mul(decimal.NewFromFloat(c.Balance)).Div(totalOwed)
			delta := share.InexactFloat64()

			// Debtor owes the creditor more, creditor is owed more.
			if err := applyFriendDelta(tx, d.UserID, c.UserID, -delta); err != nil {
				return err
			}
			if err := applyFriendDelta(tx, c.UserID, d.UserID, delta); err != nil {
				return err
			}

			if groupID != nil {
				if err := applyGroupDelta(tx, *groupID, d.UserID, c.UserID, -delta); err != nil {
					return err
				}
				if err := applyGroupDelta(tx, *groupID, c.UserID, d.UserID, delta); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// applyFriendDelta adds delta to the directed friend balance row, creating
// it with the delta if this is the pair's first shared expense. The add is
// a single statement so each row update is atomic on the store.
func applyFriendDelta(tx *gorm.DB, userID, friendID uuid.UUID, delta float64) error {
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance": gorm.Expr("friend_balances.balance + ?", delta),
		}),
	}).Create(&models.FriendBalance{UserID: userID, FriendID: friendID, Balance: delta}).Error
	if err != nil {
		return fmt.Errorf("upsert friend balance %s->%s: %w", userID, friendID, err)
	}
	return nil
}

// applyGroupDelta adds delta to the group-scoped pair row. The rows were
// seeded at group creation, so a plain UPDATE suffices.
func applyGroupDelta(tx *gorm.DB, groupID, userID, memberID uuid.UUID, delta float64) error {
	err := tx.Model(&models.GroupBalance{}).
		Where("group_id = ? AND user_id = ? AND member_id = ?", groupID, userID, memberID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("update group balance %s %s->%s: %w", groupID, userID, memberID, err)
	}
	return nil
}
