package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunExpirySweeper 周期性扫描入场核验超时的预约并转为 expired。
// ctx 取消时退出
func (s *Service) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Expiry sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("grace", s.opts.ExpiryGrace))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			n, err := s.ExpireStale(ctx)
			if err != nil {
				s.logger.Error("Expiry sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("Expired stale bookings", zap.Int("count", n))
			}
		}
	}
}
