package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"paisatrack/internal/models"
	"paisatrack/internal/recurrence"
	"paisatrack/internal/repository"
)

type CreateBillRequest struct {
	Name           string  `json:"name" binding:"required,max=255"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	DueDate        string  `json:"due_date" binding:"required"`
	IsRecurring    bool    `json:"is_recurring"`
	RecurrenceRule *string `json:"recurrence_rule" binding:"omitempty,max=255"`
	Paid           bool    `json:"paid"`
}

func (h *Handler) ListBills(c *gin.Context) {
	items, err := h.repos.Bills.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("failed to list bills", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bills"})
		return
	}

	now := h.now()
	for _, b := range items {
		if !b.IsRecurring || b.RecurrenceRule == nil {
			continue
		}
		next, err := recurrence.NextDue(*b.RecurrenceRule, b.DueDate, now)
		if err != nil {
			h.log.Warn("bad recurrence rule on bill", "bill_id", b.ID, "error", err)
			continue
		}
		b.NextDue = next
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}
	if req.IsRecurring && req.RecurrenceRule != nil {
		if _, err := recurrence.Parse(*req.RecurrenceRule, dueDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recurrence_rule"})
			return
		}
	}

	b := &models.Bill{
		UserID:         currentUserID(c),
		Name:           req.Name,
		Amount:         req.Amount,
		DueDate:        dueDate,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
		Paid:           req.Paid,
	}
	if err := h.repos.Bills.Create(c.Request.Context(), b); err != nil {
		h.log.Error("failed to create bill", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bill"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bill": b})
}

type UpdateBillRequest struct {
	Name           *string  `json:"name" binding:"omitempty,max=255"`
	Amount         *float64 `json:"amount" binding:"omitempty,gt=0"`
	DueDate        *string  `json:"due_date"`
	IsRecurring    *bool    `json:"is_recurring"`
	RecurrenceRule *string  `json:"recurrence_rule" binding:"omitempty,max=255"`
	Paid           *bool    `json:"paid"`
}

func (h *Handler) UpdateBill(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := repository.BillUpdate{
		Name:           req.Name,
		Amount:         req.Amount,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
		Paid:           req.Paid,
	}
	if req.DueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
			return
		}
		upd.DueDate = &parsed
	}
	if req.RecurrenceRule != nil && *req.RecurrenceRule != "" {
		anchor := h.now()
		if upd.DueDate != nil {
			anchor = *upd.DueDate
		}
		if _, err := recurrence.Parse(*req.RecurrenceRule, anchor); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recurrence_rule"})
			return
		}
	}

	b, err := h.repos.Bills.Update(c.Request.Context(), id, currentUserID(c), upd)
	if errors.Is(err, repository.ErrNoFields) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}
	if err != nil {
		h.log.Error("failed to update bill", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bill"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill": b})
}

// BillsCalendar lists the bills due in one month, for the calendar view.
func (h *Handler) BillsCalendar(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month query param (YYYY-MM) required"})
		return
	}

	items, err := h.repos.Bills.ListForCalendarMonth(c.Request.Context(), currentUserID(c), month)
	if err != nil {
		h.log.Error("failed to list bills for calendar", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bills"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) MarkBillPaid(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var req struct {
		Paid bool `json:"paid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.repos.Bills.SetPaid(c.Request.Context(), id, currentUserID(c), req.Paid)
	if err != nil {
		h.log.Error("failed to update bill", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bill"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteBill(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	deleted, err := h.repos.Bills.Delete(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.log.Error("failed to delete bill", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bill"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
