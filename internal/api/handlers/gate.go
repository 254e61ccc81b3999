package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type gateVerifyEntryRequest struct {
	Plate     string     `json:"plate"`
	BookingID *uuid.UUID `json:"booking_id"`
}

// GateVerifyEntry 入口闸机核验车辆
// POST /api/gate/verify-entry
func (h *Handler) GateVerifyEntry(c *gin.Context) {
	var req gateVerifyEntryRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	booking, err := h.service.GateVerifyEntry(c.Request.Context(), req.Plate, req.BookingID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

type gateVerifyExitRequest struct {
	Plate      string `json:"plate" binding:"required"`
	SecretCode string `json:"secret_code" binding:"required"`
}

// GateVerifyExit 出口闸机凭取车码核验，附带非约束性超时预览
// POST /api/gate/verify-exit
func (h *Handler) GateVerifyExit(c *gin.Context) {
	var req gateVerifyExitRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	booking, overstay, err := h.service.GateVerifyExit(c.Request.Context(), req.Plate, req.SecretCode)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     booking,
		"overstay": overstay,
	})
}
