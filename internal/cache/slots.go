package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

// SlotCache 按分区缓存的空闲车位列表（read-through）。
// TTL 给出陈旧上界；车位占用翻转时主动 DEL 失效。
// 缓存故障只降级为直查数据库，不影响正确性
type SlotCache struct {
	rdb    *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewSlotCache 创建车位缓存
func NewSlotCache(rdb *redis.Client, logger *zap.Logger, ttl time.Duration) *SlotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SlotCache{rdb: rdb, logger: logger, ttl: ttl}
}

func zoneKey(zone string) string {
	return fmt.Sprintf("slots:%s", zone)
}

// Get 读取分区的空闲车位列表缓存
func (c *SlotCache) Get(ctx context.Context, zone string) ([]models.Slot, bool) {
	data, err := c.rdb.Get(ctx, zoneKey(zone)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Slot cache read failed", zap.Error(err), zap.String("zone", zone))
		}
		return nil, false
	}

	var slots []models.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		c.logger.Warn("Slot cache decode failed", zap.Error(err), zap.String("zone", zone))
		return nil, false
	}
	return slots, true
}

// Set 写入分区的空闲车位列表缓存
func (c *SlotCache) Set(ctx context.Context, zone string, slots []models.Slot) {
	data, err := json.Marshal(slots)
	if err != nil {
		c.logger.Warn("Slot cache encode failed", zap.Error(err), zap.String("zone", zone))
		return
	}
	if err := c.rdb.Set(ctx, zoneKey(zone), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Slot cache write failed", zap.Error(err), zap.String("zone", zone))
	}
}

// InvalidateZone 车位占用变化后失效分区缓存
func (c *SlotCache) InvalidateZone(ctx context.Context, zone string) {
	if err := c.rdb.Del(ctx, zoneKey(zone)).Err(); err != nil {
		c.logger.Warn("Slot cache invalidate failed", zap.Error(err), zap.String("zone", zone))
	}
}
