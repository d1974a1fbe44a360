package ledger

import (
	"errors"
	"fmt"

	"splitledger-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateGroup creates a group with its fixed initial member set and seeds
// a zero group balance row for every ordered member pair. Seeding lives
// here because group_balances rows belong to the ledger engine: the
// distribution algorithm only ever updates them in place.
func (l *Ledger) CreateGroup(name string, createdBy uuid.UUID, memberIDs []uuid.UUID) (models.Group, error) {
	members := dedupe(append([]uuid.UUID{createdBy}, memberIDs...))

	group := models.Group{Name: name, CreatedBy: createdBy}
	err := l.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range members {
			var user models.User
			if err := tx.First(&user, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "user", ID: id}
				}
				return fmt.Errorf("load user: %w", err)
			}
		}

		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}

		for _, id := range members {
			member := models.GroupMember{GroupID: group.ID, UserID: id}
			if err := tx.Create(&member).Error; err != nil {
				return fmt.Errorf("add group member: %w", err)
			}
		}

		for _, userID := range members {
			for _, memberID := range members {
				if userID == memberID {
					continue
				}
				row := models.GroupBalance{GroupID: group.ID, UserID: userID, MemberID: memberID}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("seed group balance pair: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
