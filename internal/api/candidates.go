package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"voting_system/internal/service" // Catalog service
)

// ListCandidatesHandler returns the candidates of a category
func ListCandidatesHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, ok := pathID(c, "id")
		if !ok {
			return
		}
		candidates, err := catalog.ListCandidates(c.Request.Context(), categoryID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, candidates) // Empty list for unknown categories
	}
}

// CreateCandidateHandler adds a candidate to a category
func CreateCandidateHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, ok := pathID(c, "id")
		if !ok {
			return
		}
		name, ok := bindName(c)
		if !ok {
			return
		}
		candidate, err := catalog.CreateCandidate(c.Request.Context(), categoryID, name)
		if err != nil {
			respondError(c, err) // Missing name, unknown category or store failure
			return
		}
		c.JSON(http.StatusCreated, candidate) // Return created row
	}
}

// UpdateCandidateHandler renames a candidate within its category
func UpdateCandidateHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, ok := pathID(c, "id")
		if !ok {
			return
		}
		candidateID, ok := pathID(c, "candidateId")
		if !ok {
			return
		}
		name, ok := bindName(c)
		if !ok {
			return
		}
		candidate, err := catalog.UpdateCandidate(c.Request.Context(), categoryID, candidateID, name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, candidate) // Return updated row
	}
}

// DeleteCandidateHandler removes a candidate and the votes cast for it
func DeleteCandidateHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, ok := pathID(c, "id")
		if !ok {
			return
		}
		candidateID, ok := pathID(c, "candidateId")
		if !ok {
			return
		}
		if err := catalog.DeleteCandidate(c.Request.Context(), categoryID, candidateID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Candidate deleted"})
	}
}
