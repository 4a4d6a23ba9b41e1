package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Summary serves spending trends and category distribution, optionally for
// one month (?month=YYYY-MM).
func (h *Handler) Summary(c *gin.Context) {
	month := c.Query("month")
	summary, err := h.engine.Summary(c.Request.Context(), currentUserID(c), month)
	if err != nil {
		h.log.Error("failed to compute summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Anomalies(c *gin.Context) {
	report, err := h.engine.DetectAnomalies(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("failed to detect anomalies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detect anomalies"})
		return
	}
	c.JSON(http.StatusOK, report)
}
