package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"paisatrack/internal/agent"
)

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat runs one assistant turn for the authenticated user.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.agent.SendMessage(c.Request.Context(), currentUserID(c), req.Message)
	if err != nil {
		var upstream *agent.UpstreamError
		if errors.As(err, &upstream) {
			h.log.Error("assistant upstream failure", "status", upstream.StatusCode, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant is unavailable right now"})
			return
		}
		h.log.Error("assistant turn failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": answer})
}
