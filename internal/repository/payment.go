package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PaymentRepository 超时费支付记录仓库。
// 支付本身是模拟闸口，只落一条记录并置位 overstay_paid
type PaymentRepository struct {
	db       *DB
	bookings *BookingRepository
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *DB, bookings *BookingRepository) *PaymentRepository {
	return &PaymentRepository{db: db, bookings: bookings}
}

// RecordOverstayPayment 记录超时费支付并置位预约的已支付标记
func (r *PaymentRepository) RecordOverstayPayment(ctx context.Context, bookingID uuid.UUID, amount float64, method string) error {
	query := `
		INSERT INTO overstay_payments (id, booking_id, amount, method)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Pool.Exec(ctx, query, uuid.New(), bookingID, amount, method); err != nil {
		return fmt.Errorf("insert overstay payment: %w", err)
	}
	return r.bookings.MarkOverstayPaid(ctx, bookingID)
}
