package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/pricing"
)

func carRate(weekend *float64) *models.ZonePricingRate {
	return &models.ZonePricingRate{
		Zone:        "COLLEGE_PARKING_CENTER",
		VehicleType: "car",
		HourlyRate:  50,
		DailyRate:   400,
		WeekendRate: weekend,
		IsActive:    true,
	}
}

func TestQuote_WeekdayHourly(t *testing.T) {
	// 2026-09-07 是周一
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	assert.Equal(t, 100.0, pricing.Quote(carRate(nil), start, end))
}

func TestQuote_WeekendRatePreferred(t *testing.T) {
	weekend := 80.0
	// 2026-09-05 是周六
	start := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	assert.Equal(t, 160.0, pricing.Quote(carRate(&weekend), start, end))
}

func TestQuote_WeekendWithoutWeekendRate(t *testing.T) {
	start := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	assert.Equal(t, 100.0, pricing.Quote(carRate(nil), start, end))
}

func TestQuote_DailyCeilingAt24HoursOrMore(t *testing.T) {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	// 整 24 小时按 1 天
	assert.Equal(t, 400.0, pricing.Quote(carRate(nil), start, start.Add(24*time.Hour)))
	// 30 小时向上取整为 2 天
	assert.Equal(t, 800.0, pricing.Quote(carRate(nil), start, start.Add(30*time.Hour)))
}

func TestQuote_NonPositiveWindow(t *testing.T) {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, pricing.Quote(carRate(nil), start, start))
	assert.Equal(t, 0.0, pricing.Quote(carRate(nil), start, start.Add(-time.Hour)))
}
