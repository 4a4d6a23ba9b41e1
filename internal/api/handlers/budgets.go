package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paisatrack/internal/models"
	"paisatrack/internal/repository"
)

type CreateBudgetRequest struct {
	CategoryID   *int64  `json:"category_id"`
	MonthlyLimit float64 `json:"monthly_limit" binding:"required,gt=0"`
	Month        string  `json:"month" binding:"required,len=7"`
}

func (h *Handler) ListBudgets(c *gin.Context) {
	items, err := h.repos.Budgets.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("failed to list budgets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list budgets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b := &models.Budget{
		UserID:       currentUserID(c),
		CategoryID:   req.CategoryID,
		MonthlyLimit: req.MonthlyLimit,
		Month:        req.Month,
	}
	if err := h.repos.Budgets.Upsert(c.Request.Context(), b); err != nil {
		h.log.Error("failed to upsert budget", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save budget"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"budget": b})
}

type UpdateBudgetRequest struct {
	CategoryID   *int64   `json:"category_id"`
	MonthlyLimit *float64 `json:"monthly_limit" binding:"omitempty,gt=0"`
	Month        *string  `json:"month" binding:"omitempty,len=7"`
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.repos.Budgets.Update(c.Request.Context(), id, currentUserID(c), repository.BudgetUpdate{
		CategoryID:   req.CategoryID,
		MonthlyLimit: req.MonthlyLimit,
		Month:        req.Month,
	})
	if errors.Is(err, repository.ErrNoFields) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}
	if err != nil {
		h.log.Error("failed to update budget", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": b})
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	deleted, err := h.repos.Budgets.Delete(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.log.Error("failed to delete budget", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// BudgetStatus reports utilization and color status for the current month.
func (h *Handler) BudgetStatus(c *gin.Context) {
	month := h.now().Format("2006-01")
	report, err := h.engine.BudgetStatus(c.Request.Context(), currentUserID(c), month)
	if err != nil {
		h.log.Error("failed to compute budget status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute budget status"})
		return
	}
	c.JSON(http.StatusOK, report)
}
