package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/api/middleware"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/cache"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/geofence"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/lifecycle"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/repository"
	"github.com/Nazmin4787/parkmatrix-sub000/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger      *zap.Logger
	service     *lifecycle.Service
	bookingRepo *repository.BookingRepository
	slotRepo    *repository.SlotRepository
	slotCache   *cache.SlotCache
	auth        *middleware.AuthMiddleware
	wsHub       *ws.Hub
	upgrader    websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	service *lifecycle.Service,
	bookingRepo *repository.BookingRepository,
	slotRepo *repository.SlotRepository,
	slotCache *cache.SlotCache,
	auth *middleware.AuthMiddleware,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		slotCache:   slotCache,
		auth:        auth,
		wsHub:       wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 开发环境允许所有来源
			},
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	api.Use(h.auth.Authenticate())
	{
		// 预约（客户侧）
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings", h.ListBookings)
		api.GET("/bookings/overstay-preview", h.OverstayPreview)
		api.GET("/bookings/:id", h.GetBooking)
		api.POST("/bookings/:id/check-in", h.CheckIn)
		api.POST("/bookings/:id/request-checkout", h.RequestCheckout)
		api.POST("/bookings/:id/pay-overstay", h.PayOverstay)
		api.POST("/bookings/:id/confirm-checkout", h.ConfirmCheckout)
		api.POST("/bookings/:id/cancel", h.Cancel)

		// 闸机（值守侧）
		gate := api.Group("/gate")
		gate.Use(h.auth.RequireRole(middleware.RoleStaff))
		{
			gate.POST("/verify-entry", h.GateVerifyEntry)
			gate.POST("/verify-exit", h.GateVerifyExit)
		}

		// 车位
		api.GET("/slots", h.ListFreeSlots)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// writeError 领域错误到 HTTP 响应的统一翻译
func (h *Handler) writeError(c *gin.Context, err error) {
	var fenceErr *lifecycle.OutsideGeofenceError
	switch {
	case errors.As(err, &fenceErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error":                 "Outside geofence",
			"code":                  "outside_geofence",
			"distance_meters":       fenceErr.DistanceMeters,
			"allowed_radius_meters": fenceErr.AllowedRadiusMeters,
			"location_name":         fenceErr.LocationName,
		})
	case errors.Is(err, lifecycle.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "invalid_state_transition"})
	case errors.Is(err, lifecycle.ErrConflictingTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "conflicting_transition"})
	case errors.Is(err, lifecycle.ErrSecretMismatch):
		// 不回传任何细节，防止暴力枚举取车码
		c.JSON(http.StatusForbidden, gin.H{"error": "Secret code mismatch", "code": "secret_mismatch"})
	case errors.Is(err, lifecycle.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "slot_unavailable"})
	case errors.Is(err, lifecycle.ErrOverstayUnpaid):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "code": "overstay_unpaid"})
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "not_found"})
	case errors.Is(err, lifecycle.ErrInvalidInput), errors.Is(err, geofence.ErrLowAccuracy):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_input"})
	default:
		h.logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
