package ledger

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"splitledger-backend/database"
	"splitledger-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			Name:         fmt.Sprintf("user-%d", i),
			Email:        fmt.Sprintf("user-%d@example.com", i),
			PasswordHash: "x",
		}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	return users
}

// friendBalance reads the directed balance a->b, treating a missing row as
// zero (rows are created lazily on the first shared expense).
func friendBalance(t *testing.T, db *gorm.DB, a, b uuid.UUID) float64 {
	t.Helper()
	var row models.FriendBalance
	err := db.First(&row, "user_id = ? AND friend_id = ?", a, b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	require.NoError(t, err)
	return row.Balance
}

func groupBalance(t *testing.T, db *gorm.DB, groupID, a, b uuid.UUID) float64 {
	t.Helper()
	var row models.GroupBalance
	require.NoError(t, db.First(&row, "group_id = ? AND user_id = ? AND member_id = ?", groupID, a, b).Error)
	return row.Balance
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
