package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/repository"
)

// UserHeader carries the authenticated user id, set by the gateway in front
// of the API.
const UserHeader = "X-User-ID"

const currentUserKey = "current_user"

// Owner resolves the calling user and aborts with 401 when the header is
// missing, malformed or names an unknown user.
func Owner(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(UserHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing or invalid " + UserHeader})
			return
		}
		user, err := users.GetByID(c.Request.Context(), id)
		if apperr.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "unknown user"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Owner.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
