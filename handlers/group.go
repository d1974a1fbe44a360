package handlers

import (
	"fmt"
	"net/http"

	"splitledger-backend/models"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /api/groups
func (h *Handler) CreateGroup(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	memberIDs := make([]uuid.UUID, 0, len(req.Members))
	for _, m := range req.Members {
		id, err := uuid.Parse(m)
		if err != nil {
			utils.BadRequest(c, "Invalid member ID: "+m)
			return
		}
		memberIDs = append(memberIDs, id)
	}

	group, err := h.ledger.CreateGroup(req.Name, userID, memberIDs)
	if err != nil {
		respondLedgerError(c, "create group", err)
		return
	}

	var creator models.User
	h.db.First(&creator, "id = ?", userID)
	h.db.Create(&models.Activity{
		GroupID:     &group.ID,
		UserID:      userID,
		Type:        "group_created",
		ReferenceID: group.ID,
		Description: fmt.Sprintf("%s created group \"%s\"", creator.Name, group.Name),
	})

	utils.SuccessResponse(c, http.StatusCreated, "Group created", h.buildGroupResponse(group.ID))
}

// GET /api/groups
func (h *Handler) GetGroups(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var memberships []models.GroupMember
	h.db.Where("user_id = ?", userID).Find(&memberships)

	responses := make([]models.GroupResponse, 0, len(memberships))
	for _, m := range memberships {
		responses = append(responses, h.buildGroupResponse(m.GroupID))
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/groups/:id/report
func (h *Handler) GetGroupReport(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid group ID")
		return
	}

	var group models.Group
	if err := h.db.First(&group, "id = ?", groupID).Error; err != nil {
		utils.NotFound(c, "Group not found")
		return
	}
	if !h.isMember(groupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	// Pairwise balances with member display info.
	var balanceRows []models.GroupBalance
	h.db.Where("group_id = ?", groupID).Find(&balanceRows)

	balances := make([]models.GroupMemberBalance, 0, len(balanceRows))
	for _, row := range balanceRows {
		var member models.User
		h.db.First(&member, "id = ?", row.MemberID)
		balances = append(balances, models.GroupMemberBalance{
			UserID:   row.UserID,
			MemberID: row.MemberID,
			Name:     member.Name,
			Balance:  row.Balance,
		})
	}

	// Expense history, deleted ones included, newest first.
	var expenses []models.Expense
	h.db.Where("group_id = ?", groupID).Order("date DESC, created_at DESC").Find(&expenses)

	history := make([]models.ExpenseWithSplits, 0, len(expenses))
	for _, e := range expenses {
		var splits []models.ExpenseSplit
		h.db.Where("expense_id = ?", e.ID).Find(&splits)
		history = append(history, models.ExpenseWithSplits{Expense: e, Splits: splits})
	}

	utils.SuccessResponse(c, http.StatusOK, "", models.GroupReport{
		Group:    h.buildGroupResponse(groupID),
		Balances: balances,
		Expenses: history,
	})
}

// Helper: build full group response with members
func (h *Handler) buildGroupResponse(groupID uuid.UUID) models.GroupResponse {
	var group models.Group
	h.db.First(&group, "id = ?", groupID)

	var members []models.GroupMember
	h.db.Where("group_id = ?", groupID).Find(&members)

	memberResponses := make([]models.GroupMemberResponse, 0, len(members))
	for _, m := range members {
		var user models.User
		h.db.First(&user, "id = ?", m.UserID)
		memberResponses = append(memberResponses, models.GroupMemberResponse{
			UserID:   user.ID,
			Name:     user.Name,
			Email:    user.Email,
			JoinedAt: m.JoinedAt,
		})
	}

	return models.GroupResponse{
		ID:           group.ID,
		Name:         group.Name,
		CreatedBy:    group.CreatedBy,
		GroupExpense: group.GroupExpense,
		Members:      memberResponses,
		CreatedAt:    group.CreatedAt,
	}
}
