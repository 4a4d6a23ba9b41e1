package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"paisatrack/internal/models"
	"paisatrack/internal/repository"
)

type CreateGoalRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	TargetAmount  float64 `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount float64 `json:"current_amount" binding:"gte=0"`
	TargetDate    string  `json:"target_date" binding:"required"`
}

func (h *Handler) ListGoals(c *gin.Context) {
	items, err := h.repos.Goals.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("failed to list goals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list goals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_date, expected YYYY-MM-DD"})
		return
	}

	g := &models.Goal{
		UserID:        currentUserID(c),
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    targetDate,
	}
	if err := h.repos.Goals.Create(c.Request.Context(), g); err != nil {
		h.log.Error("failed to create goal", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": g})
}

type UpdateGoalRequest struct {
	Name          *string  `json:"name" binding:"omitempty,max=255"`
	TargetAmount  *float64 `json:"target_amount" binding:"omitempty,gt=0"`
	CurrentAmount *float64 `json:"current_amount" binding:"omitempty,gte=0"`
	TargetDate    *string  `json:"target_date"`
}

func (h *Handler) UpdateGoal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := repository.GoalUpdate{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
	}
	if req.TargetDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_date, expected YYYY-MM-DD"})
			return
		}
		upd.TargetDate = &parsed
	}

	g, err := h.repos.Goals.Update(c.Request.Context(), id, currentUserID(c), upd)
	if errors.Is(err, repository.ErrNoFields) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}
	if err != nil {
		h.log.Error("failed to update goal", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": g})
}

func (h *Handler) DeleteGoal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	deleted, err := h.repos.Goals.Delete(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.log.Error("failed to delete goal", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
