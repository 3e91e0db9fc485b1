package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"github.com/gin-gonic/gin" // Gin web framework

	"voting_system/internal/service" // Catalog service
)

// NameRequest is the body of every create and rename call
type NameRequest struct {
	Name string `json:"name"` // Category or candidate name, validated by the catalog
}

// bindName reads a NameRequest, answering 400 on a malformed body
func bindName(c *gin.Context) (string, bool) {
	var req NameRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		// If binding fails, return bad request
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return "", false
	}
	return req.Name, true
}

// ListCategoriesHandler returns all categories newest first, or one page of them
func ListCategoriesHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context() // Request-scoped context with deadline
		// Without paging parameters the whole list is returned as a bare array
		if c.Query("page") == "" && c.Query("page_size") == "" {
			categories, err := catalog.ListCategories(ctx, service.Page{})
			if err != nil {
				respondError(c, err) // Map store failure
				return
			}
			c.JSON(http.StatusOK, categories) // Return full list
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		total, err := catalog.CountCategories(ctx) // Total category count
		if err != nil {
			respondError(c, err)
			return
		}
		categories, err := catalog.ListCategories(ctx, service.Page{Number: page, Size: pageSize})
		if err != nil {
			respondError(c, err)
			return
		}
		totalPages := int((total + int64(pageSize) - 1) / int64(pageSize)) // Calculate total pages
		c.JSON(http.StatusOK, gin.H{
			"categories":  categories, // Categories on this page
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of categories
			"total_pages": totalPages, // Total pages
		})
	}
}

// CreateCategoryHandler adds a category
func CreateCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, ok := bindName(c)
		if !ok {
			return
		}
		category, err := catalog.CreateCategory(c.Request.Context(), name)
		if err != nil {
			respondError(c, err) // Missing name or store failure
			return
		}
		c.JSON(http.StatusCreated, category) // Return created row
	}
}

// UpdateCategoryHandler renames a category
func UpdateCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		name, ok := bindName(c)
		if !ok {
			return
		}
		category, err := catalog.UpdateCategory(c.Request.Context(), id, name)
		if err != nil {
			respondError(c, err) // 400, 404 or store failure
			return
		}
		c.JSON(http.StatusOK, category) // Return updated row
	}
}

// DeleteCategoryHandler removes a category with its candidates and votes
func DeleteCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := catalog.DeleteCategory(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}

// RandomCategoryHandler returns one category picked at random
func RandomCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := catalog.GetRandomCategory(c.Request.Context())
		if err != nil {
			respondError(c, err) // 404 when there are no categories
			return
		}
		c.JSON(http.StatusOK, category)
	}
}
