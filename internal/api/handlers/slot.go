package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListFreeSlots 按分区列出空闲车位，经 redis read-through 缓存
// GET /api/slots?zone=…
func (h *Handler) ListFreeSlots(c *gin.Context) {
	zone := c.Query("zone")
	if zone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "zone required"})
		return
	}

	ctx := c.Request.Context()

	if h.slotCache != nil {
		if slots, ok := h.slotCache.Get(ctx, zone); ok {
			c.JSON(http.StatusOK, gin.H{"data": slots, "cached": true})
			return
		}
	}

	slots, err := h.slotRepo.ListFreeByZone(ctx, zone)
	if err != nil {
		h.logger.Error("Failed to list free slots", zap.Error(err), zap.String("zone", zone))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list slots"})
		return
	}

	if h.slotCache != nil {
		h.slotCache.Set(ctx, zone, slots)
	}

	c.JSON(http.StatusOK, gin.H{"data": slots, "cached": false})
}
