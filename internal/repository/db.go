package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// 仓库层哨兵错误，由服务层翻译为领域错误
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("concurrent update conflict")
)

// isUniqueViolation 是否违反唯一约束（Postgres 23505）
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// DB 数据库连接池封装
type DB struct {
	Pool *pgxpool.Pool
}

// New 创建数据库连接
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 连接池配置
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close 关闭连接池
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate 执行数据库迁移
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateSlots,
		migrationCreateBookings,
		migrationCreateZonePricingRates,
		migrationCreateParkingCenters,
		migrationCreateOverstayPayments,
		migrationSeedDefaults,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// 数据库迁移 SQL
const migrationCreateSlots = `
CREATE TABLE IF NOT EXISTS parking_slots (
    id UUID PRIMARY KEY,
    zone VARCHAR(100) NOT NULL,
    floor INT NOT NULL DEFAULT 0,
    section VARCHAR(50) NOT NULL DEFAULT '',
    slot_number VARCHAR(20) NOT NULL,
    vehicle_type VARCHAR(20) NOT NULL DEFAULT 'car',
    is_occupied BOOLEAN NOT NULL DEFAULT false,
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    UNIQUE (zone, floor, section, slot_number)
);
CREATE INDEX IF NOT EXISTS idx_parking_slots_zone ON parking_slots(zone);
`

const migrationCreateBookings = `
CREATE TABLE IF NOT EXISTS bookings (
    id UUID PRIMARY KEY,
    slot_id UUID NOT NULL REFERENCES parking_slots(id),
    user_id UUID NOT NULL,
    plate VARCHAR(20) NOT NULL,
    vehicle_type VARCHAR(20) NOT NULL,
    vehicle_model VARCHAR(50),
    vehicle_color VARCHAR(30),
    start_time TIMESTAMP WITH TIME ZONE NOT NULL,
    end_time TIMESTAMP WITH TIME ZONE NOT NULL,
    status VARCHAR(20) NOT NULL,
    flow VARCHAR(10) NOT NULL DEFAULT 'gated',
    secret_code CHAR(6),
    total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    overtime_charge DOUBLE PRECISION,
    overstay_paid BOOLEAN NOT NULL DEFAULT false,
    checked_in_at TIMESTAMP WITH TIME ZONE,
    checkout_requested_at TIMESTAMP WITH TIME ZONE,
    checked_out_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_bookings_plate ON bookings(plate);
CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id);
-- 不变量：一个车位同一时刻至多一个非终态预约
CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_slot_live
    ON bookings(slot_id)
    WHERE status NOT IN ('checked_out', 'cancelled', 'expired');
-- 不变量：存活取车码在非终态预约间唯一
CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_secret_live
    ON bookings(secret_code)
    WHERE secret_code IS NOT NULL
      AND status NOT IN ('checked_out', 'cancelled', 'expired');
`

const migrationCreateZonePricingRates = `
CREATE TABLE IF NOT EXISTS zone_pricing_rates (
    id UUID PRIMARY KEY,
    zone VARCHAR(100) NOT NULL,
    vehicle_type VARCHAR(20) NOT NULL,
    hourly_rate DOUBLE PRECISION NOT NULL,
    daily_rate DOUBLE PRECISION NOT NULL,
    weekend_rate DOUBLE PRECISION,
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_zone_pricing_rates_lookup
    ON zone_pricing_rates(zone, vehicle_type) WHERE is_active;
`

const migrationCreateParkingCenters = `
CREATE TABLE IF NOT EXISTS parking_centers (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    latitude DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    radius_meters INT NOT NULL DEFAULT 500,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

const migrationCreateOverstayPayments = `
CREATE TABLE IF NOT EXISTS overstay_payments (
    id UUID PRIMARY KEY,
    booking_id UUID NOT NULL REFERENCES bookings(id),
    amount DOUBLE PRECISION NOT NULL,
    method VARCHAR(30) NOT NULL DEFAULT 'simulated',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_overstay_payments_booking ON overstay_payments(booking_id);
`

// 默认围栏与费率，便于空库启动后直接联调
const migrationSeedDefaults = `
INSERT INTO parking_centers (id, name, latitude, longitude, radius_meters)
VALUES (gen_random_uuid(), 'COLLEGE_PARKING_CENTER', 12.9716, 77.5946, 500)
ON CONFLICT (name) DO NOTHING;
`
