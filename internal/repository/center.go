package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

// CenterRepository 停车场围栏配置仓库
type CenterRepository struct {
	db *DB
}

// NewCenterRepository 创建围栏配置仓库
func NewCenterRepository(db *DB) *CenterRepository {
	return &CenterRepository{db: db}
}

// List 列出全部围栏配置
func (r *CenterRepository) List(ctx context.Context) ([]models.ParkingCenter, error) {
	query := `
		SELECT id, name, latitude, longitude, radius_meters, created_at
		FROM parking_centers ORDER BY name
	`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list parking centers: %w", err)
	}
	defer rows.Close()

	var centers []models.ParkingCenter
	for rows.Next() {
		var c models.ParkingCenter
		if err := rows.Scan(&c.ID, &c.Name, &c.Latitude, &c.Longitude, &c.RadiusMeters, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan parking center: %w", err)
		}
		centers = append(centers, c)
	}
	return centers, nil
}

// GetByName 按名称获取围栏配置
func (r *CenterRepository) GetByName(ctx context.Context, name string) (*models.ParkingCenter, error) {
	query := `
		SELECT id, name, latitude, longitude, radius_meters, created_at
		FROM parking_centers WHERE name = $1
	`
	c := &models.ParkingCenter{}
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&c.ID, &c.Name, &c.Latitude, &c.Longitude, &c.RadiusMeters, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get parking center: %w", err)
	}
	return c, nil
}
