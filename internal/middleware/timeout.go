package middleware

import (
	"context" // Deadlines for store calls
	"time"    // Durations

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequestTimeout bounds every store call made while serving a request. The
// deadline is detached from client cancellation so a disconnect cannot abort a
// transaction halfway.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next() // No deadline configured
			return
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), d)
		defer cancel()                         // Release timer when the handler returns
		c.Request = c.Request.WithContext(ctx) // Hand the bounded context to handlers
		c.Next()                               // Proceed to the next handler
	}
}
