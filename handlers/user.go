package handlers

import (
	"net/http"

	"splitledger-backend/models"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// GET /api/users/me
func (h *Handler) GetProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", user.ToResponse())
}

// PUT /api/users/me
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	h.db.Model(&user).Update("name", req.Name)

	utils.SuccessResponse(c, http.StatusOK, "Profile updated", user.ToResponse())
}

// POST /api/users/search
func (h *Handler) SearchUsers(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var users []models.User
	h.db.Where("email ILIKE ? OR name ILIKE ?", "%"+req.Query+"%", "%"+req.Query+"%").
		Limit(20).
		Find(&users)

	responses := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}
