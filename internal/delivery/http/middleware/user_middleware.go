package middleware

import (
	"context"
	"net/http"

	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// UserIdentity resolves the acting user from the X-User-ID header set by the
// auth gateway in front of this service. Requests without it are rejected -
// every editor operation is scoped to a single user's draft.
func UserIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			response.Error(c, http.StatusUnauthorized, "User identity is missing", nil)
			c.Abort()
			return
		}

		c.Set("UserID", userID)
		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
