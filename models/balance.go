package models

import "github.com/google/uuid"

// FriendBalance is the directed pairwise running balance between two users.
// Positive means the friend owes this user. Rows come in antisymmetric
// pairs: FriendBalance(a,b) == -FriendBalance(b,a). Created lazily on the
// first shared expense and written only by the ledger engine.
type FriendBalance struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FriendID uuid.UUID `gorm:"type:uuid;primaryKey" json:"friend_id"`
	Balance  float64   `gorm:"type:decimal(12,2);not null" json:"balance"`
}

// GroupBalance is the same directed pairwise balance scoped to one group.
// All ordered member pairs are seeded with zero at group creation.
type GroupBalance struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	MemberID uuid.UUID `gorm:"type:uuid;primaryKey" json:"member_id"`
	Balance  float64   `gorm:"type:decimal(12,2);not null" json:"balance"`
}

// FriendBalanceEntry is one row of the friend balance list for a user.
type FriendBalanceEntry struct {
	FriendID uuid.UUID `json:"friend_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Balance  float64   `json:"balance"`
}

// FriendBalanceSummary is returned for GET /api/friends
type FriendBalanceSummary struct {
	Friends      []FriendBalanceEntry `json:"friends"`
	TotalBalance float64              `json:"total_balance"`
}

// Counterparty is one row of the settle-up view: someone the user has an
// outstanding balance with, inside a group or as a direct friend.
type Counterparty struct {
	MemberID uuid.UUID `json:"member_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Balance  float64   `json:"balance"`
}

// SharedGroupBalance is one group-scoped balance row between two users.
type SharedGroupBalance struct {
	GroupID   uuid.UUID `json:"group_id"`
	GroupName string    `json:"group_name"`
	Balance   float64   `json:"balance"`
}

// SharedHistory is returned for GET /api/friends/:id/shared
type SharedHistory struct {
	Friend   FriendBalanceEntry   `json:"friend"`
	Groups   []SharedGroupBalance `json:"groups"`
	Expenses []SharedExpense      `json:"expenses"`
}

// SharedExpense is one non-group expense both users took part in, with the
// requesting user's own balance on it.
type SharedExpense struct {
	ExpenseID   uuid.UUID `json:"expense_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"`
	IsDeleted   bool      `json:"is_deleted"`
	UserBalance float64   `json:"user_balance"`
}
