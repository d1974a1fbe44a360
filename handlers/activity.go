package handlers

import (
	"net/http"

	"splitledger-backend/models"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /api/activity — activity feed for the current user: rows addressed
// to them directly plus everything from their groups.
func (h *Handler) GetActivity(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var memberships []models.GroupMember
	h.db.Where("user_id = ?", userID).Find(&memberships)

	groupIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	query := h.db.Preload("User").Order("created_at DESC").
		Offset(pagination.Offset()).Limit(pagination.Limit)
	if len(groupIDs) > 0 {
		query = query.Where("user_id = ? OR group_id IN ?", userID, groupIDs)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var activities []models.Activity
	query.Find(&activities)

	// Attach group names
	if len(groupIDs) > 0 {
		groupNames := make(map[uuid.UUID]string)
		var groups []models.Group
		h.db.Where("id IN ?", groupIDs).Find(&groups)
		for _, g := range groups {
			groupNames[g.ID] = g.Name
		}
		for i := range activities {
			if activities[i].GroupID != nil {
				activities[i].GroupName = groupNames[*activities[i].GroupID]
			}
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
