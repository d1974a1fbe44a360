package handlers

import (
	"log/slog"

	"splitledger-backend/database"
	"splitledger-backend/ledger"
	"splitledger-backend/models"
	"splitledger-backend/services"
	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Handler carries the injected dependencies for all HTTP handlers. Reads
// go straight through the gorm handle; every balance mutation goes through
// the ledger engine.
type Handler struct {
	db        *gorm.DB
	ledger    *ledger.Ledger
	cache     *database.Cache
	notif     *services.NotificationService
	jwtSecret string
}

func New(db *gorm.DB, l *ledger.Ledger, cache *database.Cache, notif *services.NotificationService, jwtSecret string) *Handler {
	return &Handler{db: db, ledger: l, cache: cache, notif: notif, jwtSecret: jwtSecret}
}

// respondLedgerError maps engine errors onto the response contract:
// validation -> 400, not found -> 404, anything else is logged with
// context and surfaced as a generic 500.
func respondLedgerError(c *gin.Context, op string, err error) {
	switch {
	case ledger.IsValidation(err):
		utils.BadRequest(c, err.Error())
	case ledger.IsNotFound(err):
		utils.NotFound(c, err.Error())
	default:
		slog.Error("ledger operation failed", "op", op, "err", err)
		utils.InternalError(c, "Failed to "+op)
	}
}

// isMember reports group membership.
func (h *Handler) isMember(groupID, userID uuid.UUID) bool {
	var count int64
	h.db.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", groupID, userID).Count(&count)
	return count > 0
}
