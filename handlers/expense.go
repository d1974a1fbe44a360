package handlers

import (
	"fmt"
	"net/http"
	"time"

	"splitledger-backend/ledger"
	"splitledger-backend/models"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /api/expenses
func (h *Handler) CreateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	input, err := h.expenseInput(userID, req)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if input.GroupID != nil && !h.isMember(*input.GroupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	expenseID, err := h.ledger.CreateExpense(input)
	if err != nil {
		respondLedgerError(c, "create expense", err)
		return
	}

	h.afterExpenseMutation(c, expenseID, userID, "expense_added",
		fmt.Sprintf("added \"%s\" (%.2f)", req.Description, req.Amount))

	utils.SuccessResponse(c, http.StatusCreated, "Expense added", models.CreateExpenseResponse{ExpenseID: expenseID})
}

// PUT /api/expenses/:id
func (h *Handler) UpdateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	input, err := h.expenseInput(userID, req)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if input.GroupID != nil && !h.isMember(*input.GroupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	newID, err := h.ledger.EditExpense(expenseID, input)
	if err != nil {
		respondLedgerError(c, "update expense", err)
		return
	}

	h.afterExpenseMutation(c, newID, userID, "expense_updated",
		fmt.Sprintf("updated \"%s\" (%.2f)", req.Description, req.Amount))

	utils.SuccessResponse(c, http.StatusOK, "Expense updated", models.CreateExpenseResponse{ExpenseID: newID})
}

// DELETE /api/expenses/:id
func (h *Handler) DeleteExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	h.db.First(&expense, "id = ?", expenseID)

	if err := h.ledger.DeleteExpense(expenseID); err != nil {
		respondLedgerError(c, "delete expense", err)
		return
	}

	h.afterExpenseMutation(c, expenseID, userID, "expense_deleted",
		fmt.Sprintf("deleted \"%s\" (%.2f)", expense.Description, expense.Amount))

	utils.SuccessResponse(c, http.StatusOK, "Expense deleted", nil)
}

// GET /api/expenses/:id
func (h *Handler) GetExpenseReport(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := h.db.Preload("Splits").First(&expense, "id = ?", expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	participants := make([]models.ParticipantSplit, 0, len(expense.Splits))
	for _, s := range expense.Splits {
		var user models.User
		h.db.First(&user, "id = ?", s.UserID)
		participants = append(participants, models.ParticipantSplit{
			UserID:     s.UserID,
			Name:       user.Name,
			Email:      user.Email,
			AmountPaid: s.AmountPaid,
			AmountOwed: s.AmountOwed,
			Balance:    s.Balance,
		})
	}
	expense.Splits = nil

	utils.SuccessResponse(c, http.StatusOK, "", models.ExpenseReport{
		Expense:      expense,
		Participants: participants,
	})
}

// expenseInput converts the request body into a ledger submission.
func (h *Handler) expenseInput(userID uuid.UUID, req models.CreateExpenseRequest) (ledger.ExpenseInput, error) {
	input := ledger.ExpenseInput{
		OwnerID:     userID,
		Amount:      req.Amount,
		Description: req.Description,
	}

	if req.GroupID != "" && req.GroupID != "null" {
		groupID, err := uuid.Parse(req.GroupID)
		if err != nil {
			return ledger.ExpenseInput{}, fmt.Errorf("invalid group ID: %s", req.GroupID)
		}
		input.GroupID = &groupID
	}

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return ledger.ExpenseInput{}, fmt.Errorf("invalid date, want YYYY-MM-DD: %s", req.Date)
		}
		input.Date = date
	}

	for _, s := range req.Splits {
		uid, err := uuid.Parse(s.UserID)
		if err != nil {
			return ledger.ExpenseInput{}, fmt.Errorf("invalid user ID in splits: %s", s.UserID)
		}
		input.Splits = append(input.Splits, ledger.SplitShare{
			UserID:     uid,
			AmountPaid: s.AmountPaid,
			AmountOwed: s.AmountOwed,
		})
	}

	return input, nil
}

// afterExpenseMutation records the activity row, drops the participants'
// cached balance lists and kicks off notifications.
func (h *Handler) afterExpenseMutation(c *gin.Context, expenseID, actorID uuid.UUID, activityType, action string) {
	var expense models.Expense
	if err := h.db.Preload("Splits").First(&expense, "id = ?", expenseID).Error; err != nil {
		return
	}

	var actor models.User
	h.db.First(&actor, "id = ?", actorID)

	participantIDs := make([]uuid.UUID, 0, len(expense.Splits))
	for _, s := range expense.Splits {
		participantIDs = append(participantIDs, s.UserID)
	}
	h.cache.InvalidateFriendBalances(c.Request.Context(), participantIDs...)

	description := fmt.Sprintf("%s %s", actor.Name, action)
	if expense.GroupID != nil {
		h.db.Create(&models.Activity{
			GroupID:     expense.GroupID,
			UserID:      actorID,
			Type:        activityType,
			ReferenceID: expenseID,
			Description: description,
		})
	} else {
		// Non-group expense: one feed row per participant.
		for _, id := range participantIDs {
			h.db.Create(&models.Activity{
				UserID:      id,
				Type:        activityType,
				ReferenceID: expenseID,
				Description: description,
			})
		}
	}

	if activityType == "expense_added" {
		var participants []models.User
		h.db.Where("id IN ?", participantIDs).Find(&participants)
		go h.notif.NotifyExpenseAdded(expense, expense.Splits, actor, participants)
	}
}
