package middleware

import (
	"errors"
	"net/http"

	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/pkg/apperror"
	"go-portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				// Never expose internal error details to clients. Log the
				// actual error server-side and send a generic message.
				reqID, _ := c.Get("RequestID")
				idStr, _ := reqID.(string)
				logger.Log.Error("internal server error",
					"request_id", idStr,
					"path", c.FullPath(),
					"error", err.Error(),
				)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
