package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paisatrack/internal/models"
)

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

func (h *Handler) ListCategories(c *gin.Context) {
	items, err := h.repos.Categories.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	cat := &models.Category{
		UserID: &userID,
		Name:   req.Name,
		Type:   models.TransactionType(req.Type),
	}
	if err := h.repos.Categories.Create(c.Request.Context(), cat); err != nil {
		h.log.Error("failed to create category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}
