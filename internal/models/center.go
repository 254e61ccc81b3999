package models

import (
	"time"

	"github.com/google/uuid"
)

// ParkingCenter 停车场地理围栏配置：圆心坐标 + 允许半径
type ParkingCenter struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	RadiusMeters int       `json:"radius_meters" db:"radius_meters"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
