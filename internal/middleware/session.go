package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging

	"voting_system/internal/service" // Caller and session manager
)

const callerKey = "caller" // Gin context key holding the resolved caller

// SessionMiddleware resolves the session cookie into a service.Caller for every request
func SessionMiddleware(sessions *service.SessionManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName) // Missing cookie means an anonymous caller
		caller, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			// Session store unavailable, serve the request anonymously
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(),
				"error": err,
			}).Warn("Session lookup failed")
			caller = service.Anonymous()
		}
		c.Set(callerKey, caller) // Store caller in context
		c.Next()                 // Proceed to the next handler
	}
}

// CurrentCaller returns the caller stored by SessionMiddleware
func CurrentCaller(c *gin.Context) service.Caller {
	v, exists := c.Get(callerKey) // Get caller from context
	if !exists {
		return service.Anonymous() // No session middleware ran
	}
	caller, _ := v.(service.Caller)
	return caller
}

// RequireUser aborts requests without an authenticated caller
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if the session resolved to a user
		if !CurrentCaller(c).Authenticated() {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
