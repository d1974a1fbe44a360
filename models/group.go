package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	CreatedBy uuid.UUID `gorm:"type:uuid" json:"created_by"`
	Creator   User      `gorm:"foreignKey:CreatedBy" json:"-"`
	// GroupExpense is the denormalized running sum of all active expenses
	// in the group. Written only by the ledger engine.
	GroupExpense float64       `gorm:"type:decimal(12,2);not null;default:0" json:"group_expense"`
	Members      []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Membership is fixed at group creation; there is no add-member flow.
type GroupMember struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// Request structs
type CreateGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	Members []string `json:"members" binding:"required,min=1"` // user IDs, creator implied
}

// Response structs
type GroupResponse struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	CreatedBy    uuid.UUID             `json:"created_by"`
	GroupExpense float64               `json:"group_expense"`
	Members      []GroupMemberResponse `json:"members"`
	CreatedAt    time.Time             `json:"created_at"`
}

type GroupMemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupReport is returned for GET /api/groups/:id/report
type GroupReport struct {
	Group    GroupResponse        `json:"group"`
	Balances []GroupMemberBalance `json:"balances"`
	Expenses []ExpenseWithSplits  `json:"expenses"`
}

type GroupMemberBalance struct {
	UserID   uuid.UUID `json:"user_id"`
	MemberID uuid.UUID `json:"member_id"`
	Name     string    `json:"name"`
	Balance  float64   `json:"balance"`
}
