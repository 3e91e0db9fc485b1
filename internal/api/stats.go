package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"voting_system/internal/service" // Statistics engine
)

// StatsHandler returns category and vote totals with the most voted category
func StatsHandler(stats *service.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := stats.Stats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// TopCandidateHandler returns the candidate with the most votes
func TopCandidateHandler(stats *service.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidate, err := stats.TopCandidate(c.Request.Context())
		if err != nil {
			respondError(c, err) // 404 when there are no candidates
			return
		}
		c.JSON(http.StatusOK, candidate)
	}
}

// BottomCandidateHandler returns the candidate with the fewest votes
func BottomCandidateHandler(stats *service.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidate, err := stats.BottomCandidate(c.Request.Context())
		if err != nil {
			respondError(c, err) // 404 when there are no candidates
			return
		}
		c.JSON(http.StatusOK, candidate)
	}
}
