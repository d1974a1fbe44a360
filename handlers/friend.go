package handlers

import (
	"net/http"

	"splitledger-backend/models"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /api/friends — friend balance list for the current user, with sum.
func (h *Handler) GetFriendBalances(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	if userID == uuid.Nil {
		utils.BadRequest(c, "User ID is required")
		return
	}

	var summary models.FriendBalanceSummary
	if h.cache.GetFriendBalances(c.Request.Context(), userID, &summary) {
		utils.SuccessResponse(c, http.StatusOK, "", summary)
		return
	}

	var rows []models.FriendBalance
	h.db.Where("user_id = ?", userID).Find(&rows)

	summary.Friends = make([]models.FriendBalanceEntry, 0, len(rows))
	for _, row := range rows {
		var friend models.User
		h.db.First(&friend, "id = ?", row.FriendID)
		summary.Friends = append(summary.Friends, models.FriendBalanceEntry{
			FriendID: row.FriendID,
			Name:     friend.Name,
			Email:    friend.Email,
			Balance:  row.Balance,
		})
		summary.TotalBalance += row.Balance
	}
	summary.TotalBalance = utils.RoundToTwo(summary.TotalBalance)

	h.cache.SetFriendBalances(c.Request.Context(), userID, summary)
	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// GET /api/settle-up?group_id=...|friend_id=... — counterparties with the
// current balance, either one friend or every member of one group.
func (h *Handler) SettleUp(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	groupParam := c.Query("group_id")
	friendParam := c.Query("friend_id")

	if (groupParam == "") == (friendParam == "") {
		utils.BadRequest(c, "Exactly one of group_id or friend_id is required")
		return
	}

	var counterparties []models.Counterparty

	if friendParam != "" {
		friendID, err := uuid.Parse(friendParam)
		if err != nil {
			utils.BadRequest(c, "Invalid friend ID")
			return
		}
		var row models.FriendBalance
		if err := h.db.First(&row, "user_id = ? AND friend_id = ?", userID, friendID).Error; err == nil {
			var friend models.User
			h.db.First(&friend, "id = ?", friendID)
			counterparties = append(counterparties, models.Counterparty{
				MemberID: friendID,
				Name:     friend.Name,
				Email:    friend.Email,
				Balance:  row.Balance,
			})
		}
	} else {
		groupID, err := uuid.Parse(groupParam)
		if err != nil {
			utils.BadRequest(c, "Invalid group ID")
			return
		}
		var rows []models.GroupBalance
		h.db.Where("group_id = ? AND user_id = ?", groupID, userID).Find(&rows)
		for _, row := range rows {
			var member models.User
			h.db.First(&member, "id = ?", row.MemberID)
			counterparties = append(counterparties, models.Counterparty{
				MemberID: row.MemberID,
				Name:     member.Name,
				Email:    member.Email,
				Balance:  row.Balance,
			})
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", counterparties)
}

// GET /api/friends/:id/shared — shared history between the current user
// and one friend: per-group balances plus non-group shared expenses.
func (h *Handler) GetSharedExpenses(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	friendID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid friend ID")
		return
	}

	var friend models.User
	if err := h.db.First(&friend, "id = ?", friendID).Error; err != nil {
		utils.NotFound(c, "Friend not found")
		return
	}

	var balanceRow models.FriendBalance
	h.db.First(&balanceRow, "user_id = ? AND friend_id = ?", userID, friendID)

	history := models.SharedHistory{
		Friend: models.FriendBalanceEntry{
			FriendID: friendID,
			Name:     friend.Name,
			Email:    friend.Email,
			Balance:  balanceRow.Balance,
		},
	}

	// Group-scoped balances with this friend.
	var groupRows []models.GroupBalance
	h.db.Where("user_id = ? AND member_id = ?", userID, friendID).Find(&groupRows)
	for _, row := range groupRows {
		var group models.Group
		h.db.First(&group, "id = ?", row.GroupID)
		history.Groups = append(history.Groups, models.SharedGroupBalance{
			GroupID:   row.GroupID,
			GroupName: group.Name,
			Balance:   row.Balance,
		})
	}

	// Non-group expenses both users took part in, with this user's own
	// balance on each.
	var expenses []models.Expense
	h.db.
		Joins("JOIN expense_splits es1 ON es1.expense_id = expenses.id AND es1.user_id = ?", userID).
		Joins("JOIN expense_splits es2 ON es2.expense_id = expenses.id AND es2.user_id = ?", friendID).
		Where("expenses.group_id IS NULL AND expenses.is_deleted = ?", false).
		Order("expenses.date DESC").
		Find(&expenses)

	for _, e := range expenses {
		var split models.ExpenseSplit
		h.db.First(&split, "expense_id = ? AND user_id = ?", e.ID, userID)
		history.Expenses = append(history.Expenses, models.SharedExpense{
			ExpenseID:   e.ID,
			Description: e.Description,
			Amount:      e.Amount,
			Date:        e.Date.Format("2006-01-02"),
			IsDeleted:   e.IsDeleted,
			UserBalance: split.Balance,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", history)
}
