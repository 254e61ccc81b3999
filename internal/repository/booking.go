package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

// 终态集合，存活预约查询的排除条件
const liveStatusFilter = `status NOT IN ('checked_out', 'cancelled', 'expired')`

const bookingColumns = `
	id, slot_id, user_id, plate, vehicle_type, vehicle_model, vehicle_color,
	start_time, end_time, status, flow, secret_code, total_price,
	overtime_charge, overstay_paid,
	checked_in_at, checkout_requested_at, checked_out_at,
	created_at, updated_at`

// TransitionChanges 状态转换时一并写入的字段。
// SlotOccupied 非 nil 时在同一事务内翻转车位占用，
// 避免出现“车位占用但无存活预约”（或反之）的窗口
type TransitionChanges struct {
	SecretCode          *string
	CheckedInAt         *time.Time
	CheckoutRequestedAt *time.Time
	CheckedOutAt        *time.Time
	OvertimeCharge      *float64
	OverstayPaid        *bool
	SlotOccupied        *bool
	SlotID              uuid.UUID
}

// BookingRepository 预约数据仓库
type BookingRepository struct {
	db *DB
}

// NewBookingRepository 创建预约仓库
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create 创建预约记录。车位上已有非终态预约时命中部分唯一索引，返回 ErrConflict
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, slot_id, user_id, plate, vehicle_type, vehicle_model, vehicle_color,
			start_time, end_time, status, flow, total_price, overstay_paid
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, false)
		RETURNING created_at, updated_at
	`
	err := r.db.Pool.QueryRow(ctx, query,
		b.ID,
		b.SlotID,
		b.UserID,
		b.Vehicle.Plate,
		b.Vehicle.Type,
		b.Vehicle.Model,
		b.Vehicle.Color,
		b.StartTime,
		b.EndTime,
		b.Status,
		b.Flow,
		b.TotalPrice,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID 按 ID 获取预约
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, query, id))
}

// GetConfirmedByPlate 按车牌查找待入场核验的预约（入口闸机用），取最近创建的一条
func (r *BookingRepository) GetConfirmedByPlate(ctx context.Context, plate string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings WHERE plate = $1 AND status = 'confirmed'
		ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, query, plate))
}

// GetActiveByPlate 按车牌查找非终态预约（出口闸机与超时预览用）
func (r *BookingRepository) GetActiveByPlate(ctx context.Context, plate string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings WHERE plate = $1 AND ` + liveStatusFilter + `
		ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, query, plate))
}

// ListByUserID 获取某客户的预约列表
func (r *BookingRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// HasOverlap 车位在给定时段内是否已有非终态预约
func (r *BookingRepository) HasOverlap(ctx context.Context, slotID uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE slot_id = $1 AND ` + liveStatusFilter + `
			  AND start_time < $3 AND end_time > $2
		)
	`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, slotID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slot overlap: %w", err)
	}
	return exists, nil
}

// SecretCodeInUse 取车码是否被某个非终态预约占用
func (r *BookingRepository) SecretCodeInUse(ctx context.Context, code string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE secret_code = $1 AND ` + liveStatusFilter + `
		)
	`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check secret code: %w", err)
	}
	return exists, nil
}

// Transition 原子状态转换：对 (id, 期望当前状态) 做 CAS 更新，
// 期望状态不符返回 ErrConflict。车位占用翻转与状态更新同事务提交
func (r *BookingRepository) Transition(ctx context.Context, id uuid.UUID, from, to models.BookingStatus, ch TransitionChanges) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings SET
			status = $2,
			secret_code = COALESCE($3, secret_code),
			checked_in_at = COALESCE($4, checked_in_at),
			checkout_requested_at = COALESCE($5, checkout_requested_at),
			checked_out_at = COALESCE($6, checked_out_at),
			overtime_charge = COALESCE($7, overtime_charge),
			overstay_paid = COALESCE($8, overstay_paid),
			updated_at = NOW()
		WHERE id = $1 AND status = $9
	`
	tag, err := tx.Exec(ctx, query,
		id,
		to,
		ch.SecretCode,
		ch.CheckedInAt,
		ch.CheckoutRequestedAt,
		ch.CheckedOutAt,
		ch.OvertimeCharge,
		ch.OverstayPaid,
		from,
	)
	if err != nil {
		return fmt.Errorf("transition booking: %w", err)
	}
	if tag.RowsAffected() != 1 {
		// 并发方先一步改了状态，或预约不存在
		return ErrConflict
	}

	if ch.SlotOccupied != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE parking_slots SET is_occupied = $2 WHERE id = $1`,
			ch.SlotID, *ch.SlotOccupied,
		); err != nil {
			return fmt.Errorf("toggle slot occupancy: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	return nil
}

// MarkOverstayPaid 登记超时费支付标记（仅非终态预约）
func (r *BookingRepository) MarkOverstayPaid(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE bookings SET overstay_paid = true, updated_at = NOW()
		 WHERE id = $1 AND `+liveStatusFilter,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark overstay paid: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

// ListStaleConfirmed 列出入场核验已超时的 confirmed 预约（后台扫描用）
func (r *BookingRepository) ListStaleConfirmed(ctx context.Context, startedBefore time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings WHERE status = 'confirmed' AND start_time < $1
		ORDER BY start_time ASC`
	rows, err := r.db.Pool.Query(ctx, query, startedBefore)
	if err != nil {
		return nil, fmt.Errorf("list stale confirmed bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *BookingRepository) scanOne(row pgx.Row) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID,
		&b.SlotID,
		&b.UserID,
		&b.Vehicle.Plate,
		&b.Vehicle.Type,
		&b.Vehicle.Model,
		&b.Vehicle.Color,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.Flow,
		&b.SecretCode,
		&b.TotalPrice,
		&b.OvertimeCharge,
		&b.OverstayPaid,
		&b.CheckedInAt,
		&b.CheckoutRequestedAt,
		&b.CheckedOutAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return b, nil
}
