package pricing

import (
	"time"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

// Overstay 超时停车计算结果。checked_out 之前均为可重算的预览值，
// 终态转换时定格为最终费用
type Overstay struct {
	HasOverstay     bool    `json:"has_overstay"`
	OverstayMinutes int64   `json:"overstay_minutes"`
	OverstayHours   float64 `json:"overstay_hours"`
	OverstayAmount  float64 `json:"overstay_amount"`
	HourlyRate      float64 `json:"hourly_rate"`
}

// ComputeOverstay 按参考时间计算超时费：
// minutes = floor(ref - end)，hours = minutes/60（允许小数），amount = hours × 小时费率。
// 纯函数，相同输入结果确定，随 ref 推进单调不减
func ComputeOverstay(rate *models.ZonePricingRate, endTime, ref time.Time) Overstay {
	hourly := HourlyRateFor(rate, endTime)
	if !ref.After(endTime) {
		return Overstay{HourlyRate: hourly}
	}

	minutes := int64(ref.Sub(endTime).Minutes())
	if minutes <= 0 {
		return Overstay{HourlyRate: hourly}
	}

	hours := float64(minutes) / 60.0
	return Overstay{
		HasOverstay:     true,
		OverstayMinutes: minutes,
		OverstayHours:   hours,
		OverstayAmount:  hours * hourly,
		HourlyRate:      hourly,
	}
}
