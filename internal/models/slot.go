package models

import (
	"time"

	"github.com/google/uuid"
)

// Slot 车位：占用标记由状态机在事务内翻转，不单独维护
type Slot struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Zone        string    `json:"zone" db:"zone"`
	Floor       int       `json:"floor" db:"floor"`
	Section     string    `json:"section" db:"section"`
	SlotNumber  string    `json:"slot_number" db:"slot_number"`
	VehicleType string    `json:"vehicle_type" db:"vehicle_type"` // 车位适配的车辆类型
	IsOccupied  bool      `json:"is_occupied" db:"is_occupied"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
