package ledger

import (
	"errors"
	"testing"

	"splitledger-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two participants, one payer: the full deficit moves between the pair.
func TestDistributeTwoParticipants(t *testing.T) {
	db := newTestDB(t)
	l := New(db)
	users := seedUsers(t, db, 2)
	a, b := users[0], users[1]

	_, err := l.CreateExpense(ExpenseInput{
		OwnerID:     a.ID,
		Amount:      100,
		Description: "dinner",
		Splits: []SplitShare{
			{UserID: a.ID, AmountPaid: 100, AmountOwed: 50},
			{UserID: b.ID, AmountPaid: 0, AmountOwed: 50},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 50, friendBalance(t, db, a.ID, b.ID), 0.001)
	assert.InDelta(t, -50, friendBalance(t, db, b.ID, a.ID), 0.001)
}

// Three-way equal split, single payer: each debtor owes the payer their
// full share and the debtors owe each other nothing.
func TestDistributeSinglePayerThreeWay(t *testing.T) {
	db := newTestDB(t)
	l := New(db)
	users := seedUsers(t, db, 3)
	a, b, c := users[0], users[1], users[2]

	_, err := l.CreateExpense(ExpenseInput{
		OwnerID:     a.ID,
		Amount:      90,
		Description: "groceries",
		Splits: []SplitShare{
			{UserID: a.ID, AmountPaid: 90, AmountOwed: 30},
			{UserID: b.ID, AmountPaid: 0, AmountOwed: 30},
			{UserID: c.ID, AmountPaid: 0, AmountOwed: 30},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 30, friendBalance(t, db, a.ID, b.ID), 0.001)
	assert.InDelta(t, 30, friendBalance(t, db, a.ID, c.ID), 0.001)
	assert.InDelta(t, -30, friendBalance(t, db, b.ID, a.ID), 0.001)
	assert.InDelta(t, -30, friendBalance(t, db, c.ID, a.ID), 0.001)
	assert.InDelta(t, 0, friendBalance(t, db, b.ID, c.ID), 0.001)
}

// The allocation denominator must be the true sum of all debtor deficits,
// not just one debtor's balance.
func TestDistributeThreeDebtorsUsesTrueDeficitSum(t *testing.T) {
	db := newTestDB(t)
	l := New(db)
	users := seedUsers(t, db, 4)
	payer := users[0]

	_, err := l.CreateExpense(ExpenseInput{
		OwnerID:     payer.ID,
		Amount:      100,
		Description: "rent",
		Splits: []SplitShare{
			{UserID: payer.ID, AmountPaid: 100, AmountOwed: 10},
			{UserID: users[1].ID, AmountPaid: 0, AmountOwed: 50},
			{UserID: users[2].ID, AmountPaid: 0, AmountOwed: 30},
			{UserID: users[3].ID, AmountPaid: 0, AmountOwed: 10},
		},
	})
	require.NoError(t, err)

	// One creditor with surplus 90, so each debtor's full deficit flows to
	// the payer.
	assert.InDelta(t, 50, friendBalance(t, db, payer.ID, users[1].ID), 0.001)
	assert.InDelta(t, 30, friendBalance(t, db, payer.ID, users[2].ID), 0.001)
	assert.InDelta(t, 10, friendBalance(t, db, payer.ID, users[3].ID), 0.001)
}

// Multiple creditors: each debtor's deficit splits across creditors in
// proportion to their surpluses, and the per-creditor incoming shares sum
// to that creditor's surplus.
func TestDistributeProportionalAcrossCreditors(t *testing.T) {
	db := newTestDB(t)
	l := New(db)
	users := seedUsers(t, db, 4)
	a, b, c, d := users[0], users[1], users[2], users[3]

	_, err := l.CreateExpense(ExpenseInput{
		OwnerID:     a.ID,
		Amount:      200,
		Description: "trip",
		Splits: []SplitShare{
			{UserID: a.ID, AmountPaid: 120, AmountOwed: 0},  // surplus 120
			{UserID: b.ID, AmountPaid: 80, AmountOwed: 0},   // surplus 80
			{UserID: c.ID, AmountPaid: 0, AmountOwed: 150},  // deficit 150
			{UserID: d.ID, AmountPaid: 0, AmountOwed: 50},   // deficit 50
		},
	})
	require.NoError(t, err)

	// share(d,c) = deficit * surplus / 200
	assert.InDelta(t, -90, friendBalance(t, db, c.ID, a.ID), 0.001) // 150*120/200
	assert.InDelta(t, -60, friendBalance(t, db, c.ID, b.ID), 0.001) // 150*80/200
	assert.InDelta(t, -30, friendBalance(t, db, d.ID, a.ID), 0.001) // 50*120/200
	assert.InDelta(t, -20, friendBalance(t, db, d.ID, b.ID), 0.001) // 50*80/200

	// Column sums: incoming shares equal each creditor's surplus.
	assert.InDelta(t, 120, friendBalance(t, db, a.ID, c.ID)+friendBalance(t, db, a.ID, d.ID), 0.001)
	assert.InDelta(t, 80, friendBalance(t, db, b.ID, c.ID)+friendBalance(t, db, b.ID, d.ID), 0.001)
}

// Every friend balance row must have an exact mirror row.
func TestDistributeAntisymmetry(t *testing.T) {
	db := newTestDB(t)
	l := New(db)
	users := seedUsers(t, db, 3)

	inputs := []ExpenseInput{
		{
			OwnerID: users[0].ID, Amount: 60, Description: "first",
			Splits: []SplitShare{
				{UserID: users[0].ID, AmountPaid: 60, AmountOwed: 20},
				{UserID: users[1].ID, AmountPaid: 0, AmountOwed: 20},
				{UserID: users[2].ID, AmountPaid: 0, AmountOwed: 20},
			},
		},
		{
			OwnerID: users[1].ID, Amount: 45, Description: "second",
			Splits: []SplitShare{
				{UserID: users[1].ID, AmountPaid: 45, AmountOwed: 15},
				{UserID: users[2].ID, AmountPaid: 0, AmountOwed: 30},
			},
		},
	}
	for _, in := range inputs {
		_, err := l.CreateExpense(in)
		require.NoError(t, err)
	}

	var rows []models.FriendBalance
	require.NoError(t, db.Find(&rows).Error)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		mirror := friendBalance(t, db, row.FriendID, row.UserID)
		assert.InDelta(t, -row.Balance, mirror, 0.001,
			"balance %s->%s is not antisymmetric", row.UserID, row.FriendID)
	}
}

// An all-zero-balance expense has no creditors or debtors: the create
// succeeds as a no-op and no balance rows are written.
func TestDistributeNoCounterpartyIsBenign(t *testing.T) {
	db := newTestDB(t)
	l := New(db)
	users := seedUsers(t, db, 2)

	_, err := l.CreateExpense(ExpenseInput{
		OwnerID:     users[0].ID,
		Amount:      40,
		Description: "each paid their own share",
		Splits: []SplitShare{
			{UserID: users[0].ID, AmountPaid: 20, AmountOwed: 20},
			{UserID: users[1].ID, AmountPaid: 20, AmountOwed: 20},
		},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 0, countRows(t, db, &models.FriendBalance{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.GroupBalance{}))
}

func TestDistributeReportsNoCounterparty(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, 1)

	expense := models.Expense{UserID: users[0].ID, Amount: 10, Description: "orphan"}
	require.NoError(t, db.Create(&expense).Error)

	err := distribute(db, expense.ID, nil)
	var nc *NoCounterpartyError
	require.True(t, errors.As(err, &nc), "want NoCounterpartyError, got %v", err)
	assert.Equal(t, expense.ID, nc.ExpenseID)
}

// Grouped expenses mirror every friend delta into the pre-seeded group
// pair rows and leave uninvolved pairs untouched.
func TestDistributeGroupedExpense(t *testing.T) {
	db := newTestDB(t)
	l := New(db)
	users := seedUsers(t, db, 3)
	a, b, c := users[0], users[1], users[2]

	group, err := l.CreateGroup("flat", a.ID, []uuid.UUID{b.ID, c.ID})
	require.NoError(t, err)

	_, err = l.CreateExpense(ExpenseInput{
		OwnerID:     a.ID,
		GroupID:     &group.ID,
		Amount:      60,
		Description: "utilities",
		Splits: []SplitShare{
			{UserID: a.ID, AmountPaid: 60, AmountOwed: 20},
			{UserID: b.ID, AmountPaid: 0, AmountOwed: 20},
			{UserID: c.ID, AmountPaid: 0, AmountOwed: 20},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 20, groupBalance(t, db, group.ID, a.ID, b.ID), 0.001)
	assert.InDelta(t, 20, groupBalance(t, db, group.ID, a.ID, c.ID), 0.001)
	assert.InDelta(t, -20, groupBalance(t, db, group.ID, b.ID, a.ID), 0.001)
	assert.InDelta(t, -20, groupBalance(t, db, group.ID, c.ID, a.ID), 0.001)
	assert.InDelta(t, 0, groupBalance(t, db, group.ID, b.ID, c.ID), 0.001)

	// Friend balances move in lockstep with the group-scoped ones.
	assert.InDelta(t, 20, friendBalance(t, db, a.ID, b.ID), 0.001)

	var g models.Group
	require.NoError(t, db.First(&g, "id = ?", group.ID).Error)
	assert.InDelta(t, 60, g.GroupExpense, 0.001)
}
