package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

// RateRepository 费率数据仓库
type RateRepository struct {
	db *DB
}

// NewRateRepository 创建费率仓库
func NewRateRepository(db *DB) *RateRepository {
	return &RateRepository{db: db}
}

// GetActive 获取 (zone, vehicle_type) 的启用费率
func (r *RateRepository) GetActive(ctx context.Context, zone, vehicleType string) (*models.ZonePricingRate, error) {
	query := `
		SELECT id, zone, vehicle_type, hourly_rate, daily_rate, weekend_rate, is_active, created_at
		FROM zone_pricing_rates
		WHERE zone = $1 AND vehicle_type = $2 AND is_active
		ORDER BY created_at DESC LIMIT 1
	`
	rate := &models.ZonePricingRate{}
	err := r.db.Pool.QueryRow(ctx, query, zone, vehicleType).Scan(
		&rate.ID, &rate.Zone, &rate.VehicleType,
		&rate.HourlyRate, &rate.DailyRate, &rate.WeekendRate,
		&rate.IsActive, &rate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get active rate: %w", err)
	}
	return rate, nil
}

// Create 创建费率
func (r *RateRepository) Create(ctx context.Context, rate *models.ZonePricingRate) error {
	query := `
		INSERT INTO zone_pricing_rates (id, zone, vehicle_type, hourly_rate, daily_rate, weekend_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.Pool.QueryRow(ctx, query,
		rate.ID, rate.Zone, rate.VehicleType,
		rate.HourlyRate, rate.DailyRate, rate.WeekendRate, rate.IsActive,
	).Scan(&rate.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rate: %w", err)
	}
	return nil
}
