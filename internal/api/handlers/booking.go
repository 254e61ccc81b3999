package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/lifecycle"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

type createBookingRequest struct {
	SlotID    uuid.UUID      `json:"slot_id" binding:"required"`
	UserID    uuid.UUID      `json:"user_id" binding:"required"`
	Vehicle   models.Vehicle `json:"vehicle" binding:"required"`
	StartTime time.Time      `json:"start_time" binding:"required"`
	EndTime   time.Time      `json:"end_time" binding:"required"`
}

// CreateBooking 创建预约
// POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), lifecycle.CreateBookingInput{
		SlotID:    req.SlotID,
		UserID:    req.UserID,
		Vehicle:   req.Vehicle,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": booking})
}

// GetBooking 查询预约
// GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

// ListBookings 查询客户的预约列表
// GET /api/bookings?user_id=…
func (h *Handler) ListBookings(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	bookings, err := h.bookingRepo.ListByUserID(c.Request.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": bookings,
		"pagination": gin.H{
			"page":     page,
			"per_page": perPage,
		},
	})
}

type checkInRequest struct {
	Location *lifecycle.Location `json:"location"`
}

// CheckIn 客户自助签到，签发取车码
// POST /api/bookings/:id/check-in
func (h *Handler) CheckIn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req checkInRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	booking, err := h.service.CheckIn(c.Request.Context(), id, req.Location)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

// RequestCheckout 客户申请离场
// POST /api/bookings/:id/request-checkout
func (h *Handler) RequestCheckout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.service.RequestCheckout(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

// OverstayPreview 超时费预览
// GET /api/bookings/overstay-preview?plate=… 或 ?booking_id=…
func (h *Handler) OverstayPreview(c *gin.Context) {
	var bookingID *uuid.UUID
	if raw := c.Query("booking_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking_id"})
			return
		}
		bookingID = &id
	}

	plate := c.Query("plate")
	if bookingID == nil && plate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plate or booking_id required"})
		return
	}

	preview, err := h.service.OverstayPreview(c.Request.Context(), plate, bookingID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": preview})
}

// PayOverstay 登记超时费支付
// POST /api/bookings/:id/pay-overstay
func (h *Handler) PayOverstay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.service.PayOverstay(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

type confirmCheckoutRequest struct {
	Location *lifecycle.Location `json:"location"`
}

// ConfirmCheckout 客户确认离场（终态）
// POST /api/bookings/:id/confirm-checkout
func (h *Handler) ConfirmCheckout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req confirmCheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	booking, err := h.service.ConfirmCheckout(c.Request.Context(), id, req.Location)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

// Cancel 取消预约（仅 confirmed）
// POST /api/bookings/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}
