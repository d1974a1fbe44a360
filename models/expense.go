package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense is a single spend event. Amount and splits are immutable once
// created: an edit soft-deletes the old row and creates a new one, so the
// stored history always reflects what was actually distributed.
type Expense struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	Owner       User           `gorm:"foreignKey:UserID" json:"-"`
	GroupID     *uuid.UUID     `gorm:"type:uuid;index" json:"group_id,omitempty"` // nil => non-group expense
	Amount      float64        `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string         `gorm:"not null;size:255" json:"description"`
	Date        time.Time      `json:"date"`
	IsDeleted   bool           `gorm:"not null;default:false;index" json:"is_deleted"`
	Splits      []ExpenseSplit `gorm:"foreignKey:ExpenseID" json:"splits,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ExpenseSplit is one participant's paid/owed/balance triple for one
// expense. Balance is always AmountPaid - AmountOwed; the per-expense sum
// of balances is zero.
type ExpenseSplit struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID  uuid.UUID `gorm:"type:uuid;index" json:"expense_id"`
	UserID     uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AmountPaid float64   `gorm:"type:decimal(12,2);not null" json:"amount_paid"`
	AmountOwed float64   `gorm:"type:decimal(12,2);not null" json:"amount_owed"`
	Balance    float64   `gorm:"type:decimal(12,2);not null" json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}

func (es *ExpenseSplit) BeforeCreate(tx *gorm.DB) error {
	if es.ID == uuid.Nil {
		es.ID = uuid.New()
	}
	return nil
}

// Request structs
type SplitInput struct {
	UserID     string  `json:"user_id" binding:"required"`
	AmountPaid float64 `json:"amount_paid"`
	AmountOwed float64 `json:"amount_owed"`
}

type CreateExpenseRequest struct {
	Amount      float64      `json:"amount" binding:"required,gt=0"`
	Description string       `json:"description" binding:"required"`
	GroupID     string       `json:"group_id"` // empty or "null" => non-group expense
	Date        string       `json:"date"`     // YYYY-MM-DD, defaults to today
	Splits      []SplitInput `json:"splits"`
}

// Response structs
type CreateExpenseResponse struct {
	ExpenseID uuid.UUID `json:"expense_id"`
}

type ExpenseReport struct {
	Expense      Expense            `json:"expense"`
	Participants []ParticipantSplit `json:"participants"`
}

type ParticipantSplit struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	AmountPaid float64   `json:"amount_paid"`
	AmountOwed float64   `json:"amount_owed"`
	Balance    float64   `json:"balance"`
}

type ExpenseWithSplits struct {
	Expense Expense        `json:"expense"`
	Splits  []ExpenseSplit `json:"splits"`
}
