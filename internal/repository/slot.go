package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

const slotColumns = `id, zone, floor, section, slot_number, vehicle_type, is_occupied, is_active, created_at`

// SlotRepository 车位数据仓库
type SlotRepository struct {
	db *DB
}

// NewSlotRepository 创建车位仓库
func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Create 创建车位
func (r *SlotRepository) Create(ctx context.Context, s *models.Slot) error {
	query := `
		INSERT INTO parking_slots (id, zone, floor, section, slot_number, vehicle_type, is_occupied, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, false, true)
		RETURNING created_at
	`
	err := r.db.Pool.QueryRow(ctx, query,
		s.ID, s.Zone, s.Floor, s.Section, s.SlotNumber, s.VehicleType,
	).Scan(&s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

// GetByID 按 ID 获取车位
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM parking_slots WHERE id = $1`
	s := &models.Slot{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Zone, &s.Floor, &s.Section, &s.SlotNumber,
		&s.VehicleType, &s.IsOccupied, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return s, nil
}

// ListFreeByZone 列出分区内未占用且启用的车位
func (r *SlotRepository) ListFreeByZone(ctx context.Context, zone string) ([]models.Slot, error) {
	query := `SELECT ` + slotColumns + `
		FROM parking_slots
		WHERE zone = $1 AND is_active AND NOT is_occupied
		ORDER BY floor, section, slot_number`
	rows, err := r.db.Pool.Query(ctx, query, zone)
	if err != nil {
		return nil, fmt.Errorf("list free slots: %w", err)
	}
	defer rows.Close()

	var slots []models.Slot
	for rows.Next() {
		var s models.Slot
		if err := rows.Scan(
			&s.ID, &s.Zone, &s.Floor, &s.Section, &s.SlotNumber,
			&s.VehicleType, &s.IsOccupied, &s.IsActive, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, nil
}
