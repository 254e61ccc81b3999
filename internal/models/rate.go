package models

import (
	"time"

	"github.com/google/uuid"
)

// ZonePricingRate 分区计价费率，按 (zone, vehicle_type, is_active) 检索。
// 预约创建后存储派生的 total_price，费率修改不回溯已有预约
type ZonePricingRate struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Zone        string    `json:"zone" db:"zone"`
	VehicleType string    `json:"vehicle_type" db:"vehicle_type"`
	HourlyRate  float64   `json:"hourly_rate" db:"hourly_rate"`
	DailyRate   float64   `json:"daily_rate" db:"daily_rate"`
	WeekendRate *float64  `json:"weekend_rate,omitempty" db:"weekend_rate"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
