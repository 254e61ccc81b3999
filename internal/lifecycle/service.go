package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/geofence"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/pricing"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/repository"
)

// BookingStore 预约存储端口
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetConfirmedByPlate(ctx context.Context, plate string) (*models.Booking, error)
	GetActiveByPlate(ctx context.Context, plate string) (*models.Booking, error)
	HasOverlap(ctx context.Context, slotID uuid.UUID, start, end time.Time) (bool, error)
	SecretCodeInUse(ctx context.Context, code string) (bool, error)
	Transition(ctx context.Context, id uuid.UUID, from, to models.BookingStatus, ch repository.TransitionChanges) error
	ListStaleConfirmed(ctx context.Context, startedBefore time.Time) ([]*models.Booking, error)
}

// SlotStore 车位存储端口
type SlotStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Slot, error)
}

// RateStore 费率存储端口
type RateStore interface {
	GetActive(ctx context.Context, zone, vehicleType string) (*models.ZonePricingRate, error)
}

// CenterStore 围栏配置端口
type CenterStore interface {
	List(ctx context.Context) ([]models.ParkingCenter, error)
	GetByName(ctx context.Context, name string) (*models.ParkingCenter, error)
}

// PaymentRecorder 超时费支付能力。真实结算还是模拟闸口由实现决定，
// 状态机只看支付标记
type PaymentRecorder interface {
	RecordOverstayPayment(ctx context.Context, bookingID uuid.UUID, amount float64, method string) error
}

// Broadcaster 状态变更广播（闸口值守端实时看板）
type Broadcaster interface {
	BroadcastBookingUpdate(data interface{})
}

// CacheInvalidator 车位列表缓存失效
type CacheInvalidator interface {
	InvalidateZone(ctx context.Context, zone string)
}

// Options 服务配置
type Options struct {
	// Flow 部署级流程变体，新建预约按此盖戳
	Flow models.BookingFlow
	// ExpiryGrace confirmed 预约的入场核验宽限期，
	// start_time + grace 仍未核验则过期
	ExpiryGrace time.Duration
}

// Location 客户端上报的 GPS 坐标
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AccuracyM float64 `json:"accuracy_m"`
}

// Service 预约生命周期服务：所有转换的唯一入口。
// 客户端上报的数值（价格、距离）一律服务端重算，不采信客户端
type Service struct {
	logger   *zap.Logger
	bookings BookingStore
	slots    SlotStore
	rates    RateStore
	centers  CenterStore
	payments PaymentRecorder
	fence    *geofence.Validator
	hub      Broadcaster
	cache    CacheInvalidator
	opts     Options
}

// NewService 创建生命周期服务。hub 和 cache 可为 nil
func NewService(
	logger *zap.Logger,
	bookings BookingStore,
	slots SlotStore,
	rates RateStore,
	centers CenterStore,
	payments PaymentRecorder,
	fence *geofence.Validator,
	hub Broadcaster,
	cache CacheInvalidator,
	opts Options,
) *Service {
	if opts.Flow == "" {
		opts.Flow = models.FlowGated
	}
	if opts.ExpiryGrace <= 0 {
		opts.ExpiryGrace = 30 * time.Minute
	}
	return &Service{
		logger:   logger,
		bookings: bookings,
		slots:    slots,
		rates:    rates,
		centers:  centers,
		payments: payments,
		fence:    fence,
		hub:      hub,
		cache:    cache,
		opts:     opts,
	}
}

// CreateBookingInput 创建预约请求
type CreateBookingInput struct {
	SlotID    uuid.UUID      `json:"slot_id"`
	UserID    uuid.UUID      `json:"user_id"`
	Vehicle   models.Vehicle `json:"vehicle"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
}

// CreateBooking 创建预约：校验车位与时段，解析费率计价，落 confirmed 记录。
// 时段内已有非终态预约返回 ErrSlotUnavailable
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if in.Vehicle.Plate == "" {
		return nil, fmt.Errorf("%w: vehicle plate required", ErrInvalidInput)
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrInvalidInput)
	}

	slot, err := s.slots.GetByID(ctx, in.SlotID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if !slot.IsActive {
		return nil, ErrSlotUnavailable
	}
	if slot.VehicleType != "" && slot.VehicleType != in.Vehicle.Type {
		return nil, fmt.Errorf("%w: slot accepts %s only", ErrInvalidInput, slot.VehicleType)
	}

	overlap, err := s.bookings.HasOverlap(ctx, in.SlotID, in.StartTime, in.EndTime)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if overlap {
		return nil, ErrSlotUnavailable
	}

	rate, err := s.rates.GetActive(ctx, slot.Zone, in.Vehicle.Type)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	b := &models.Booking{
		ID:         uuid.New(),
		SlotID:     in.SlotID,
		UserID:     in.UserID,
		Vehicle:    in.Vehicle,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Status:     models.StatusConfirmed,
		Flow:       s.opts.Flow,
		TotalPrice: pricing.Quote(rate, in.StartTime, in.EndTime),
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// 并发创建撞上同一车位的存活预约索引
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("zone", slot.Zone),
		zap.Float64("total_price", b.TotalPrice))
	s.notify(ctx, b, slot.Zone)
	return b, nil
}

// GateVerifyEntry 入口闸机核验：confirmed → verified，解锁客户自助签到。
// 不改车位占用
func (s *Service) GateVerifyEntry(ctx context.Context, plate string, bookingID *uuid.UUID) (*models.Booking, error) {
	b, err := s.findForGate(ctx, plate, bookingID, true)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, b, EventGateVerifyEntry, repository.TransitionChanges{})
}

// CheckIn 客户自助签到：签发取车码，记录 checked_in_at，占用车位。
// 旧版流程必须通过地理围栏判定；主路径流程无条件放行（入口闸机已核验）
func (s *Service) CheckIn(ctx context.Context, id uuid.UUID, loc *Location) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	m := NewMachine(b.Flow, b.Status)
	if !m.Can(EventCheckIn) {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidStateTransition, EventCheckIn, b.Status)
	}

	if b.Flow == models.FlowLegacy {
		if err := s.requireWithinFence(ctx, b, loc); err != nil {
			return nil, err
		}
	}

	code, err := IssueSecretCode(ctx, s.bookings)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	occupied := true
	return s.applyTransition(ctx, b, EventCheckIn, repository.TransitionChanges{
		SecretCode:   &code,
		CheckedInAt:  &now,
		SlotOccupied: &occupied,
		SlotID:       b.SlotID,
	})
}

// RequestCheckout 客户申请离场：checked_in → checkout_requested，不改车位
func (s *Service) RequestCheckout(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	now := time.Now()
	return s.applyTransition(ctx, b, EventRequestCheckout, repository.TransitionChanges{
		CheckoutRequestedAt: &now,
	})
}

// GateVerifyExit 出口闸机凭取车码核验：checkout_requested → checkout_verified。
// 先比对取车码再查转换边，重复提交同一有效码会落在状态检查上
// 返回 InvalidStateTransition，不重复生效
func (s *Service) GateVerifyExit(ctx context.Context, plate, secretCode string) (*models.Booking, *pricing.Overstay, error) {
	b, err := s.bookings.GetActiveByPlate(ctx, plate)
	if err != nil {
		return nil, nil, s.mapStoreErr(err)
	}

	if !MatchSecretCode(b.SecretCode, secretCode) {
		return nil, nil, ErrSecretMismatch
	}

	updated, err := s.applyTransition(ctx, b, EventGateVerifyExit, repository.TransitionChanges{})
	if err != nil {
		return nil, nil, err
	}

	// 非约束性超时预览，供闸口值守提示客户
	ov, err := s.computeOverstay(ctx, updated, time.Now())
	if err != nil {
		s.logger.Warn("Overstay preview failed at exit gate",
			zap.Error(err), zap.String("booking_id", b.ID.String()))
		return updated, nil, nil
	}
	return updated, ov, nil
}

// OverstayPreview 超时费预览：幂等，checked_out 前可随时重算
func (s *Service) OverstayPreview(ctx context.Context, plate string, bookingID *uuid.UUID) (*pricing.Overstay, error) {
	var b *models.Booking
	var err error
	if bookingID != nil {
		b, err = s.bookings.GetByID(ctx, *bookingID)
	} else {
		b, err = s.bookings.GetActiveByPlate(ctx, plate)
	}
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	return s.computeOverstay(ctx, b, time.Now())
}

// PayOverstay 登记超时费支付。无欠费时原样返回预约
func (s *Service) PayOverstay(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	if b.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: pay_overstay from %s", ErrInvalidStateTransition, b.Status)
	}

	ov, err := s.computeOverstay(ctx, b, time.Now())
	if err != nil {
		return nil, err
	}
	if !ov.HasOverstay {
		return b, nil
	}

	if err := s.payments.RecordOverstayPayment(ctx, b.ID, ov.OverstayAmount, "simulated"); err != nil {
		return nil, s.mapStoreErr(err)
	}

	s.logger.Info("Overstay payment recorded",
		zap.String("booking_id", b.ID.String()),
		zap.Float64("amount", ov.OverstayAmount))
	return s.bookings.GetByID(ctx, id)
}

// ConfirmCheckout 客户确认离场（终态）：定格超时费用，释放车位。
// 存在未结清超时费时返回 ErrOverstayUnpaid。旧版流程再次做围栏判定
func (s *Service) ConfirmCheckout(ctx context.Context, id uuid.UUID, loc *Location) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	m := NewMachine(b.Flow, b.Status)
	if !m.Can(EventConfirmCheckout) {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidStateTransition, EventConfirmCheckout, b.Status)
	}

	if b.Flow == models.FlowLegacy {
		if err := s.requireWithinFence(ctx, b, loc); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	ov, err := s.computeOverstay(ctx, b, now)
	if err != nil {
		return nil, err
	}
	if ov.HasOverstay && !b.OverstayPaid {
		return nil, ErrOverstayUnpaid
	}

	occupied := false
	return s.applyTransition(ctx, b, EventConfirmCheckout, repository.TransitionChanges{
		CheckedOutAt:   &now,
		OvertimeCharge: &ov.OverstayAmount,
		SlotOccupied:   &occupied,
		SlotID:         b.SlotID,
	})
}

// Cancel 取消预约：仅 confirmed 可取消，任何闸机核验之后拒绝
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	occupied := false
	return s.applyTransition(ctx, b, EventCancel, repository.TransitionChanges{
		SlotOccupied: &occupied,
		SlotID:       b.SlotID,
	})
}

// ExpireStale 后台扫描：把入场核验超时的 confirmed 预约转为 expired。
// 过期只由扫描触发，不依赖客户端配合
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.opts.ExpiryGrace)
	stale, err := s.bookings.ListStaleConfirmed(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		occupied := false
		if _, err := s.applyTransition(ctx, b, EventExpire, repository.TransitionChanges{
			SlotOccupied: &occupied,
			SlotID:       b.SlotID,
		}); err != nil {
			// 竞争到了正常转换（比如刚好有人核验入场），跳过即可
			s.logger.Debug("Skip expiring booking",
				zap.Error(err), zap.String("booking_id", b.ID.String()))
			continue
		}
		expired++
	}
	return expired, nil
}

// GetBooking 查询预约
func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	return b, nil
}

// applyTransition 走一遍状态机 + CAS 落库 + 广播。
// 状态机拒绝返回 InvalidStateTransition；CAS 落空返回 ConflictingTransition
func (s *Service) applyTransition(ctx context.Context, b *models.Booking, event string, ch repository.TransitionChanges) (*models.Booking, error) {
	m := NewMachine(b.Flow, b.Status)
	to, err := m.Fire(ctx, event)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Transition(ctx, b.ID, b.Status, to, ch); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflictingTransition
		}
		return nil, err
	}

	updated, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	s.logger.Info("Booking transitioned",
		zap.String("booking_id", b.ID.String()),
		zap.String("event", event),
		zap.String("from", string(b.Status)),
		zap.String("to", string(to)))

	var zone string
	if ch.SlotOccupied != nil {
		if slot, err := s.slots.GetByID(ctx, b.SlotID); err == nil {
			zone = slot.Zone
		}
	}
	s.notify(ctx, updated, zone)
	return updated, nil
}

// requireWithinFence 旧版流程的围栏闸门：优先用车位所在分区的命名围栏，
// 未配置时对全部围栏做 OR 判定
func (s *Service) requireWithinFence(ctx context.Context, b *models.Booking, loc *Location) error {
	if loc == nil {
		return fmt.Errorf("%w: location required for legacy flow", ErrInvalidInput)
	}

	slot, err := s.slots.GetByID(ctx, b.SlotID)
	if err != nil {
		return s.mapStoreErr(err)
	}

	var result *geofence.Result
	center, err := s.centers.GetByName(ctx, slot.Zone)
	switch {
	case err == nil:
		result, err = s.fence.Validate(loc.Latitude, loc.Longitude, loc.AccuracyM, *center)
	case errors.Is(err, repository.ErrNotFound):
		var centers []models.ParkingCenter
		centers, err = s.centers.List(ctx)
		if err != nil {
			return s.mapStoreErr(err)
		}
		result, err = s.fence.ValidateAny(loc.Latitude, loc.Longitude, loc.AccuracyM, centers)
	default:
		return s.mapStoreErr(err)
	}
	if err != nil {
		return err
	}

	if !result.IsWithin {
		return &OutsideGeofenceError{
			DistanceMeters:      result.DistanceMeters,
			AllowedRadiusMeters: result.AllowedRadiusMeters,
			LocationName:        result.LocationName,
		}
	}
	return nil
}

// computeOverstay 服务端权威重算超时费。checked_in 之前没有超时概念
func (s *Service) computeOverstay(ctx context.Context, b *models.Booking, ref time.Time) (*pricing.Overstay, error) {
	if b.CheckedInAt == nil || b.Status == models.StatusCancelled || b.Status == models.StatusExpired {
		return &pricing.Overstay{}, nil
	}
	if b.Status == models.StatusCheckedOut {
		// 终态已定格，直接回放
		ov := pricing.Overstay{}
		if b.OvertimeCharge != nil && *b.OvertimeCharge > 0 {
			ov.HasOverstay = true
			ov.OverstayAmount = *b.OvertimeCharge
		}
		return &ov, nil
	}

	slot, err := s.slots.GetByID(ctx, b.SlotID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	rate, err := s.rates.GetActive(ctx, slot.Zone, b.Vehicle.Type)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	ov := pricing.ComputeOverstay(rate, b.EndTime, ref)
	return &ov, nil
}

// findForGate 闸机侧定位预约：优先 booking_id，否则按车牌
func (s *Service) findForGate(ctx context.Context, plate string, bookingID *uuid.UUID, confirmedOnly bool) (*models.Booking, error) {
	if bookingID != nil {
		b, err := s.bookings.GetByID(ctx, *bookingID)
		return b, s.mapStoreErr(err)
	}
	if plate == "" {
		return nil, fmt.Errorf("%w: plate or booking_id required", ErrInvalidInput)
	}
	var b *models.Booking
	var err error
	if confirmedOnly {
		b, err = s.bookings.GetConfirmedByPlate(ctx, plate)
	} else {
		b, err = s.bookings.GetActiveByPlate(ctx, plate)
	}
	return b, s.mapStoreErr(err)
}

func (s *Service) notify(ctx context.Context, b *models.Booking, zone string) {
	if s.hub != nil {
		s.hub.BroadcastBookingUpdate(b)
	}
	if s.cache != nil && zone != "" {
		s.cache.InvalidateZone(ctx, zone)
	}
}

func (s *Service) mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflictingTransition
	}
	return err
}
