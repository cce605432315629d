package middleware

import (
	"assessmate.app/casenote/common/logger"
	"assessmate.app/casenote/internal/http/dto"
	"github.com/gin-gonic/gin"
)

const maxSessionIDLength = 64

// Session attaches the wizard session id header to the request's log fields.
// Ids longer than maxSessionIDLength are truncated.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(dto.SessionHeader)
		if len(sessionID) > maxSessionIDLength {
			sessionID = sessionID[:maxSessionIDLength]
		}
		if sessionID != "" {
			ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
				SessionID: logger.Ptr(sessionID),
			})
			c.Request = c.Request.WithContext(ctx)
			c.Header(dto.SessionHeader, sessionID)
		}
		c.Next()
	}
}
