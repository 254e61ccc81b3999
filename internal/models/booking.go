package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus 预约状态（状态机判别字段）
type BookingStatus string

const (
	StatusConfirmed         BookingStatus = "confirmed"          // 预约已创建并计价
	StatusVerified          BookingStatus = "verified"           // 入口闸机已核验车辆
	StatusCheckedIn         BookingStatus = "checked_in"         // 客户已自助签到，车位占用
	StatusCheckoutRequested BookingStatus = "checkout_requested" // 客户已申请离场
	StatusCheckoutVerified  BookingStatus = "checkout_verified"  // 出口闸机已核验取车码
	StatusCheckedOut        BookingStatus = "checked_out"        // 终态：已离场
	StatusCancelled         BookingStatus = "cancelled"          // 终态：已取消
	StatusExpired           BookingStatus = "expired"            // 终态：入场核验超时
)

// IsTerminal 是否终态（终态后预约不可变更）
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusCheckedOut, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// BookingFlow 预约流程变体：gated 为双闸机核验流程（主路径），
// legacy 为旧版地理围栏直接签到流程（兼容路径）
type BookingFlow string

const (
	FlowGated  BookingFlow = "gated"
	FlowLegacy BookingFlow = "legacy"
)

// Vehicle 预约关联的车辆信息
type Vehicle struct {
	Plate string `json:"plate" db:"plate"`
	Type  string `json:"type" db:"vehicle_type"`
	Model string `json:"model,omitempty" db:"vehicle_model"`
	Color string `json:"color,omitempty" db:"vehicle_color"`
}

// Booking 停车预约记录
type Booking struct {
	ID     uuid.UUID `json:"id" db:"id"`
	SlotID uuid.UUID `json:"slot_id" db:"slot_id"`
	UserID uuid.UUID `json:"user_id" db:"user_id"`

	Vehicle Vehicle `json:"vehicle"`

	// 预约时段
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	Status BookingStatus `json:"status" db:"status"`
	Flow   BookingFlow   `json:"flow" db:"flow"`

	// 取车码：进入 checked_in 时签发，6 位数字，非终态预约间唯一
	SecretCode *string `json:"secret_code,omitempty" db:"secret_code"`

	// 创建时计算，之后不可变
	TotalPrice float64 `json:"total_price" db:"total_price"`

	// 终态 checked_out 时定格的超时费用
	OvertimeCharge *float64 `json:"overtime_charge,omitempty" db:"overtime_charge"`
	OverstayPaid   bool     `json:"overstay_paid" db:"overstay_paid"`

	// 各节点时间戳，各自只写一次，存在时单调递增
	CheckedInAt         *time.Time `json:"checked_in_at,omitempty" db:"checked_in_at"`
	CheckoutRequestedAt *time.Time `json:"checkout_requested_at,omitempty" db:"checkout_requested_at"`
	CheckedOutAt        *time.Time `json:"checked_out_at,omitempty" db:"checked_out_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
