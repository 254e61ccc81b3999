package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/api/handlers"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/api/middleware"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/cache"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/config"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/geofence"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/lifecycle"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/repository"
	"github.com/Nazmin4787/parkmatrix-sub000/pkg/ws"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting parkmatrix",
		zap.String("port", cfg.ServerPort),
		zap.String("booking_flow", string(cfg.BookingFlow)))

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接数据库
	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	// 执行数据库迁移
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	// 创建 Repository
	bookingRepo := repository.NewBookingRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	rateRepo := repository.NewRateRepository(db)
	centerRepo := repository.NewCenterRepository(db)
	paymentRepo := repository.NewPaymentRepository(db, bookingRepo)

	// 连接 Redis（车位列表缓存，连不上只降级不致命）
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	var slotCache *cache.SlotCache
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, slot cache disabled", zap.Error(err))
	} else {
		slotCache = cache.NewSlotCache(rdb, logger, cfg.SlotCacheTTL)
	}

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run()
	wsHub.SetInitDataProvider(func() interface{} {
		return gin.H{"server_time": time.Now()}
	})

	// 围栏校验器
	fence := geofence.NewValidator(cfg.GeofenceMaxAccuracyM)

	// 预约生命周期服务
	var invalidator lifecycle.CacheInvalidator
	if slotCache != nil {
		invalidator = slotCache
	}
	service := lifecycle.NewService(
		logger,
		bookingRepo,
		slotRepo,
		rateRepo,
		centerRepo,
		paymentRepo,
		fence,
		wsHub,
		invalidator,
		lifecycle.Options{
			Flow:        cfg.BookingFlow,
			ExpiryGrace: cfg.ExpiryGrace,
		},
	)

	// 入场核验超时扫描
	go service.RunExpirySweeper(ctx, cfg.ExpirySweepInterval)

	// 创建 HTTP 处理器
	auth := middleware.NewAuthMiddleware(cfg.JWTSecret)
	handler := handlers.NewHandler(
		logger,
		service,
		bookingRepo,
		slotRepo,
		slotCache,
		auth,
		wsHub,
	)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// corsMiddleware CORS 中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
