package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/samudata/samudata-api/internal/models"
)

const maxUserAgentLength = 512

// Actor stores the client address and user agent on the request context for audit rows.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := c.Request.UserAgent()
		if len(ua) > maxUserAgentLength {
			ua = ua[:maxUserAgentLength]
		}
		ctx := models.WithActor(c.Request.Context(), models.Actor{
			IPAddress: c.ClientIP(),
			UserAgent: ua,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
