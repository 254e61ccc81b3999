package pricing

import (
	"math"
	"time"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

// HourlyRateFor 返回某一天适用的小时费率：
// 周末且配置了 weekend_rate 时优先周末费率
func HourlyRateFor(rate *models.ZonePricingRate, day time.Time) float64 {
	if rate.WeekendRate != nil && isWeekend(day) {
		return *rate.WeekendRate
	}
	return rate.HourlyRate
}

// Quote 按预约时段计算总价：
// 总时长不足 24 小时按小时计费，满 24 小时按天向上取整计费
func Quote(rate *models.ZonePricingRate, start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	if hours <= 0 {
		return 0
	}
	if hours >= 24 {
		days := math.Ceil(hours / 24)
		return days * rate.DailyRate
	}
	return hours * HourlyRateFor(rate, start)
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
