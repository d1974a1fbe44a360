package middleware

import (
	"strings"

	"splitledger-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the Bearer token and stores the authenticated
// user's id on the request context for handlers to read.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Unauthorized(c, "Authorization header must be a Bearer token")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(secret, parts[1])
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
