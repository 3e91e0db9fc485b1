package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"voting_system/internal/middleware" // Resolved caller
	"voting_system/internal/service"    // Voting ledger
)

// VoteRequest is the body of a vote submission
type VoteRequest struct {
	CategoryID  uint `json:"categoryId" binding:"required"`  // Category voted in
	CandidateID uint `json:"candidateId" binding:"required"` // Chosen candidate
}

// SubmitVoteHandler records the caller's vote in a category
func SubmitVoteHandler(ledger *service.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentCaller(c) // Get caller from context
		// Check the caller before looking at the body
		if !caller.Authenticated() {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req VoteRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Missing or zero ids, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		if _, err := ledger.SubmitVote(c.Request.Context(), caller, req.CategoryID, req.CandidateID); err != nil {
			respondError(c, err) // Duplicate, invalid pair or store failure
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Vote submitted"})
	}
}

// CheckVoteHandler reports whether the caller already voted in a category
func CheckVoteHandler(ledger *service.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentCaller(c) // Get caller from context
		if !caller.Authenticated() {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		categoryID, ok := pathID(c, "categoryId")
		if !ok {
			return
		}
		voted, err := ledger.CheckIfVoted(c.Request.Context(), caller, categoryID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"hasVoted": voted})
	}
}
