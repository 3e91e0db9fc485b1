package api

import (
	"errors"   // Error kind matching
	"net/http" // HTTP status codes
	"strconv"  // Path id parsing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging

	"voting_system/internal/domain" // Domain error kinds
)

// respondError maps a service error onto its HTTP status and JSON body
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateVote):
		// Duplicate votes are reported like any other bad request
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already voted in this category"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.Message(err)})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": domain.Message(err)})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		// Store failures never leak details to the client
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"error":  err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pathID parses a positive numeric path parameter, answering 400 when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		// If the id is not a positive integer, return bad request
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}
