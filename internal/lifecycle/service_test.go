package lifecycle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/geofence"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/lifecycle"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/repository"
)

// memStore 内存版存储，测试用。实现 lifecycle 的全部存储端口，
// Transition 模拟数据库 CAS：from 不匹配即返回 ErrConflict
type memStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*models.Booking
	slots    map[uuid.UUID]*models.Slot
	rates    map[string]*models.ZonePricingRate
	centers  map[string]*models.ParkingCenter

	// failNextTransition 置位后下一次 Transition 直接 CAS 落空
	failNextTransition bool
	payments           int
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[uuid.UUID]*models.Booking),
		slots:    make(map[uuid.UUID]*models.Slot),
		rates:    make(map[string]*models.ZonePricingRate),
		centers:  make(map[string]*models.ParkingCenter),
	}
}

func rateKey(zone, vehicleType string) string { return zone + "|" + vehicleType }

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}

func (s *memStore) Create(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.bookings {
		if other.SlotID == b.SlotID && !other.Status.IsTerminal() {
			return repository.ErrConflict
		}
	}
	s.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (s *memStore) GetConfirmedByPlate(_ context.Context, plate string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.Vehicle.Plate == plate && b.Status == models.StatusConfirmed {
			return cloneBooking(b), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) GetActiveByPlate(_ context.Context, plate string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.Vehicle.Plate == plate && !b.Status.IsTerminal() {
			return cloneBooking(b), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) HasOverlap(_ context.Context, slotID uuid.UUID, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.SlotID == slotID && !b.Status.IsTerminal() &&
			b.StartTime.Before(end) && start.Before(b.EndTime) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) SecretCodeInUse(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.SecretCode != nil && *b.SecretCode == code && !b.Status.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Transition(_ context.Context, id uuid.UUID, from, to models.BookingStatus, ch repository.TransitionChanges) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNextTransition {
		s.failNextTransition = false
		return repository.ErrConflict
	}
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != from {
		return repository.ErrConflict
	}
	b.Status = to
	if ch.SecretCode != nil {
		b.SecretCode = ch.SecretCode
	}
	if ch.CheckedInAt != nil {
		b.CheckedInAt = ch.CheckedInAt
	}
	if ch.CheckoutRequestedAt != nil {
		b.CheckoutRequestedAt = ch.CheckoutRequestedAt
	}
	if ch.CheckedOutAt != nil {
		b.CheckedOutAt = ch.CheckedOutAt
	}
	if ch.OvertimeCharge != nil {
		b.OvertimeCharge = ch.OvertimeCharge
	}
	if ch.OverstayPaid != nil {
		b.OverstayPaid = *ch.OverstayPaid
	}
	if ch.SlotOccupied != nil {
		if slot, ok := s.slots[ch.SlotID]; ok {
			slot.IsOccupied = *ch.SlotOccupied
		}
	}
	b.UpdatedAt = time.Now()
	return nil
}

func (s *memStore) ListStaleConfirmed(_ context.Context, startedBefore time.Time) ([]*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Booking
	for _, b := range s.bookings {
		if b.Status == models.StatusConfirmed && b.StartTime.Before(startedBefore) {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (s *memStore) GetSlotByID(_ context.Context, id uuid.UUID) (*models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *slot
	return &c, nil
}

func (s *memStore) GetActive(_ context.Context, zone, vehicleType string) (*models.ZonePricingRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rates[rateKey(zone, vehicleType)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (s *memStore) List(_ context.Context) ([]models.ParkingCenter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ParkingCenter
	for _, c := range s.centers {
		out = append(out, *c)
	}
	return out, nil
}

func (s *memStore) GetByName(_ context.Context, name string) (*models.ParkingCenter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.centers[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) RecordOverstayPayment(_ context.Context, bookingID uuid.UUID, _ float64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	b.OverstayPaid = true
	s.payments++
	return nil
}

// slotStoreAdapter 让 memStore 的 GetSlotByID 对上 SlotStore 端口
type slotStoreAdapter struct{ *memStore }

func (a slotStoreAdapter) GetByID(ctx context.Context, id uuid.UUID) (*models.Slot, error) {
	return a.GetSlotByID(ctx, id)
}

type fixture struct {
	svc    *lifecycle.Service
	store  *memStore
	slotID uuid.UUID
	userID uuid.UUID
}

func newFixture(t *testing.T, flow models.BookingFlow) *fixture {
	t.Helper()
	store := newMemStore()

	slotID := uuid.New()
	store.slots[slotID] = &models.Slot{
		ID:          slotID,
		Zone:        "COLLEGE_PARKING_CENTER",
		SlotNumber:  "A-101",
		VehicleType: "car",
		IsActive:    true,
	}
	store.rates[rateKey("COLLEGE_PARKING_CENTER", "car")] = &models.ZonePricingRate{
		Zone:        "COLLEGE_PARKING_CENTER",
		VehicleType: "car",
		HourlyRate:  50,
		DailyRate:   400,
		IsActive:    true,
	}
	store.centers["COLLEGE_PARKING_CENTER"] = &models.ParkingCenter{
		ID:           uuid.New(),
		Name:         "COLLEGE_PARKING_CENTER",
		Latitude:     12.9716,
		Longitude:    77.5946,
		RadiusMeters: 500,
	}

	svc := lifecycle.NewService(
		zap.NewNop(),
		store,
		slotStoreAdapter{store},
		store,
		store,
		store,
		geofence.NewValidator(100),
		nil,
		nil,
		lifecycle.Options{Flow: flow, ExpiryGrace: 30 * time.Minute},
	)
	return &fixture{svc: svc, store: store, slotID: slotID, userID: uuid.New()}
}

func (f *fixture) createBooking(t *testing.T, start, end time.Time) *models.Booking {
	t.Helper()
	b, err := f.svc.CreateBooking(context.Background(), lifecycle.CreateBookingInput{
		SlotID: f.slotID,
		UserID: f.userID,
		Vehicle: models.Vehicle{
			Plate: "KA01AB1234",
			Type:  "car",
		},
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) statusOf(t *testing.T, id uuid.UUID) models.BookingStatus {
	t.Helper()
	b, err := f.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	return b.Status
}

func insideLocation() *lifecycle.Location {
	return &lifecycle.Location{Latitude: 12.9716, Longitude: 77.5946, AccuracyM: 10}
}

func TestCreateBooking_PricesServerSide(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	// 2026-09-07 周一，2 小时 × 50
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	b := f.createBooking(t, start, start.Add(2*time.Hour))

	assert.Equal(t, models.StatusConfirmed, b.Status)
	assert.Equal(t, models.FlowGated, b.Flow)
	assert.Equal(t, 100.0, b.TotalPrice)
	assert.Nil(t, b.SecretCode)
}

func TestCreateBooking_RejectsOverlap(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	f.createBooking(t, start, start.Add(2*time.Hour))

	_, err := f.svc.CreateBooking(context.Background(), lifecycle.CreateBookingInput{
		SlotID:    f.slotID,
		UserID:    uuid.New(),
		Vehicle:   models.Vehicle{Plate: "KA05XY9999", Type: "car"},
		StartTime: start.Add(time.Hour),
		EndTime:   start.Add(3 * time.Hour),
	})
	assert.ErrorIs(t, err, lifecycle.ErrSlotUnavailable)
}

func TestCreateBooking_RejectsVehicleTypeMismatch(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	start := time.Now().Add(time.Hour)

	_, err := f.svc.CreateBooking(context.Background(), lifecycle.CreateBookingInput{
		SlotID:    f.slotID,
		UserID:    uuid.New(),
		Vehicle:   models.Vehicle{Plate: "KA02MN0001", Type: "bike"},
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidInput)
}

func TestGatedLifecycle_HappyPath(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	ctx := context.Background()
	now := time.Now()
	b := f.createBooking(t, now.Add(-10*time.Minute), now.Add(2*time.Hour))

	// 入口闸机按车牌核验
	verified, err := f.svc.GateVerifyEntry(ctx, "KA01AB1234", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, verified.Status)

	// 主路径签到不要求坐标
	checkedIn, err := f.svc.CheckIn(ctx, b.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.SecretCode)
	assert.Len(t, *checkedIn.SecretCode, 6)
	require.NotNil(t, checkedIn.CheckedInAt)
	assert.True(t, f.store.slots[f.slotID].IsOccupied)

	requested, err := f.svc.RequestCheckout(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckoutRequested, requested.Status)
	require.NotNil(t, requested.CheckoutRequestedAt)

	exited, ov, err := f.svc.GateVerifyExit(ctx, "KA01AB1234", *checkedIn.SecretCode)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckoutVerified, exited.Status)
	require.NotNil(t, ov)
	assert.False(t, ov.HasOverstay)

	done, err := f.svc.ConfirmCheckout(ctx, b.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, done.Status)
	require.NotNil(t, done.CheckedOutAt)
	require.NotNil(t, done.OvertimeCharge)
	assert.Equal(t, 0.0, *done.OvertimeCharge)
	assert.False(t, f.store.slots[f.slotID].IsOccupied)
}

func TestCheckIn_RequiresEntryVerificationOnGatedFlow(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	_, err := f.svc.CheckIn(context.Background(), b.ID, nil)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStateTransition)
	assert.Equal(t, models.StatusConfirmed, f.statusOf(t, b.ID))
}

func TestGateVerifyExit_SecretMismatchLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	ctx := context.Background()
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	_, err := f.svc.GateVerifyEntry(ctx, "", &b.ID)
	require.NoError(t, err)
	checkedIn, err := f.svc.CheckIn(ctx, b.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.RequestCheckout(ctx, b.ID)
	require.NoError(t, err)

	wrong := "000000"
	if *checkedIn.SecretCode == wrong {
		wrong = "000001"
	}
	_, _, err = f.svc.GateVerifyExit(ctx, "KA01AB1234", wrong)
	assert.ErrorIs(t, err, lifecycle.ErrSecretMismatch)
	assert.Equal(t, models.StatusCheckoutRequested, f.statusOf(t, b.ID))

	// 正确取车码随后仍然可用
	_, _, err = f.svc.GateVerifyExit(ctx, "KA01AB1234", *checkedIn.SecretCode)
	assert.NoError(t, err)
}

func TestGateVerifyExit_SecondSubmitDoesNotReplay(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	ctx := context.Background()
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	_, err := f.svc.GateVerifyEntry(ctx, "", &b.ID)
	require.NoError(t, err)
	checkedIn, err := f.svc.CheckIn(ctx, b.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.RequestCheckout(ctx, b.ID)
	require.NoError(t, err)

	_, _, err = f.svc.GateVerifyExit(ctx, "KA01AB1234", *checkedIn.SecretCode)
	require.NoError(t, err)

	// 同一有效码重复提交：码对得上，状态对不上
	_, _, err = f.svc.GateVerifyExit(ctx, "KA01AB1234", *checkedIn.SecretCode)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStateTransition)
	assert.Equal(t, models.StatusCheckoutVerified, f.statusOf(t, b.ID))
}

func TestCancel_OnlyBeforeAnyVerification(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	ctx := context.Background()
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	_, err := f.svc.GateVerifyEntry(ctx, "", &b.ID)
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, b.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStateTransition)
	assert.Equal(t, models.StatusCheckedIn, f.statusOf(t, b.ID))
	assert.True(t, f.store.slots[f.slotID].IsOccupied)
}

func TestCancel_FromConfirmed(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	cancelled, err := f.svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
}

func TestTransition_ConcurrentLoserGetsConflict(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	f.store.failNextTransition = true
	_, err := f.svc.Cancel(context.Background(), b.ID)
	assert.ErrorIs(t, err, lifecycle.ErrConflictingTransition)
	assert.Equal(t, models.StatusConfirmed, f.statusOf(t, b.ID))
}

func TestConfirmCheckout_BlocksOnUnpaidOverstay(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	ctx := context.Background()
	now := time.Now()
	// 预约时段已在 90 分钟前结束
	b := f.createBooking(t, now.Add(-3*time.Hour), now.Add(-90*time.Minute))

	_, err := f.svc.GateVerifyEntry(ctx, "", &b.ID)
	require.NoError(t, err)
	checkedIn, err := f.svc.CheckIn(ctx, b.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.RequestCheckout(ctx, b.ID)
	require.NoError(t, err)

	_, ov, err := f.svc.GateVerifyExit(ctx, "KA01AB1234", *checkedIn.SecretCode)
	require.NoError(t, err)
	require.NotNil(t, ov)
	assert.True(t, ov.HasOverstay)
	assert.GreaterOrEqual(t, ov.OverstayMinutes, int64(90))
	assert.InDelta(t, 75.0, ov.OverstayAmount, 5)

	_, err = f.svc.ConfirmCheckout(ctx, b.ID, nil)
	assert.ErrorIs(t, err, lifecycle.ErrOverstayUnpaid)
	assert.Equal(t, models.StatusCheckoutVerified, f.statusOf(t, b.ID))

	paid, err := f.svc.PayOverstay(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, paid.OverstayPaid)
	assert.Equal(t, 1, f.store.payments)

	done, err := f.svc.ConfirmCheckout(ctx, b.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, done.Status)
	require.NotNil(t, done.OvertimeCharge)
	assert.InDelta(t, 75.0, *done.OvertimeCharge, 5)
	assert.False(t, f.store.slots[f.slotID].IsOccupied)
}

func TestPayOverstay_NoopWithoutDebt(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	same, err := f.svc.PayOverstay(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, same.OverstayPaid)
	assert.Equal(t, 0, f.store.payments)
}

func TestOverstayPreview_IdempotentBeforeCheckout(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	ctx := context.Background()
	now := time.Now()
	b := f.createBooking(t, now.Add(-3*time.Hour), now.Add(-90*time.Minute))

	_, err := f.svc.GateVerifyEntry(ctx, "", &b.ID)
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, b.ID, nil)
	require.NoError(t, err)

	first, err := f.svc.OverstayPreview(ctx, "", &b.ID)
	require.NoError(t, err)
	second, err := f.svc.OverstayPreview(ctx, "KA01AB1234", nil)
	require.NoError(t, err)

	assert.True(t, first.HasOverstay)
	// 两次预览间的时钟推进不会让金额变小
	assert.GreaterOrEqual(t, second.OverstayAmount, first.OverstayAmount)
	assert.Equal(t, models.StatusCheckedIn, f.statusOf(t, b.ID))
}

func TestLegacyFlow_CheckInGatedByGeofence(t *testing.T) {
	f := newFixture(t, models.FlowLegacy)
	ctx := context.Background()
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	// 圆心正北约 600 米，半径 500 米之外
	far := &lifecycle.Location{Latitude: 12.9716 + 600/111320.0, Longitude: 77.5946, AccuracyM: 10}
	_, err := f.svc.CheckIn(ctx, b.ID, far)

	var fenceErr *lifecycle.OutsideGeofenceError
	require.ErrorAs(t, err, &fenceErr)
	assert.InDelta(t, 600, fenceErr.DistanceMeters, 10)
	assert.Equal(t, 500, fenceErr.AllowedRadiusMeters)
	assert.Equal(t, "COLLEGE_PARKING_CENTER", fenceErr.LocationName)
	assert.Equal(t, models.StatusConfirmed, f.statusOf(t, b.ID))

	// 围栏内直接 confirmed → checked_in
	checkedIn, err := f.svc.CheckIn(ctx, b.ID, insideLocation())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.SecretCode)
}

func TestLegacyFlow_CheckInRequiresLocation(t *testing.T) {
	f := newFixture(t, models.FlowLegacy)
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	_, err := f.svc.CheckIn(context.Background(), b.ID, nil)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidInput)
}

func TestLegacyFlow_DirectConfirmCheckoutRevalidatesFence(t *testing.T) {
	f := newFixture(t, models.FlowLegacy)
	ctx := context.Background()
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	_, err := f.svc.CheckIn(ctx, b.ID, insideLocation())
	require.NoError(t, err)

	far := &lifecycle.Location{Latitude: 12.9716 + 600/111320.0, Longitude: 77.5946, AccuracyM: 10}
	_, err = f.svc.ConfirmCheckout(ctx, b.ID, far)
	var fenceErr *lifecycle.OutsideGeofenceError
	assert.ErrorAs(t, err, &fenceErr)

	done, err := f.svc.ConfirmCheckout(ctx, b.ID, insideLocation())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, done.Status)
	assert.False(t, f.store.slots[f.slotID].IsOccupied)
}

func TestLegacyFlow_LowAccuracyRejected(t *testing.T) {
	f := newFixture(t, models.FlowLegacy)
	b := f.createBooking(t, time.Now(), time.Now().Add(2*time.Hour))

	blurry := &lifecycle.Location{Latitude: 12.9716, Longitude: 77.5946, AccuracyM: 250}
	_, err := f.svc.CheckIn(context.Background(), b.ID, blurry)
	assert.ErrorIs(t, err, geofence.ErrLowAccuracy)
}

func TestExpireStale_SweepsOnlyOverdueConfirmed(t *testing.T) {
	f := newFixture(t, models.FlowGated)
	ctx := context.Background()
	now := time.Now()

	// 宽限期 30 分钟：开场 2 小时仍未核验的预约应过期
	stale := f.createBooking(t, now.Add(-2*time.Hour), now.Add(time.Hour))

	count, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, models.StatusExpired, f.statusOf(t, stale.ID))

	// 终态后车位可再次预约
	fresh := f.createBooking(t, now.Add(10*time.Minute), now.Add(2*time.Hour))
	count, err = f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, models.StatusConfirmed, f.statusOf(t, fresh.ID))
}

func TestGetBooking_NotFound(t *testing.T) {
	f := newFixture(t, models.FlowGated)

	_, err := f.svc.GetBooking(context.Background(), uuid.New())
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}
