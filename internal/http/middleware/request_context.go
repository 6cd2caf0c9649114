package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// AttachRequestContext bounds every request context by timeout. Zero
// disables the bound.
func AttachRequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
