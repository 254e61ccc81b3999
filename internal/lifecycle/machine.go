package lifecycle

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

// 转换事件常量
const (
	EventGateVerifyEntry = "gate_verify_entry" // 入口闸机核验
	EventCheckIn         = "check_in"          // 客户自助签到
	EventRequestCheckout = "request_checkout"  // 客户申请离场
	EventGateVerifyExit  = "gate_verify_exit"  // 出口闸机核验取车码
	EventConfirmCheckout = "confirm_checkout"  // 客户确认离场（终态）
	EventCancel          = "cancel"            // 取消（仅 confirmed）
	EventExpire          = "expire"            // 入场核验超时（仅后台扫描触发）
)

// gatedEvents 双闸机核验流程（主路径）的转换表
func gatedEvents() fsm.Events {
	return fsm.Events{
		{Name: EventGateVerifyEntry, Src: []string{string(models.StatusConfirmed)}, Dst: string(models.StatusVerified)},
		{Name: EventCheckIn, Src: []string{string(models.StatusVerified)}, Dst: string(models.StatusCheckedIn)},
		{Name: EventRequestCheckout, Src: []string{string(models.StatusCheckedIn)}, Dst: string(models.StatusCheckoutRequested)},
		{Name: EventGateVerifyExit, Src: []string{string(models.StatusCheckoutRequested)}, Dst: string(models.StatusCheckoutVerified)},
		{Name: EventConfirmCheckout, Src: []string{string(models.StatusCheckoutVerified)}, Dst: string(models.StatusCheckedOut)},
		{Name: EventCancel, Src: []string{string(models.StatusConfirmed)}, Dst: string(models.StatusCancelled)},
		{Name: EventExpire, Src: []string{string(models.StatusConfirmed)}, Dst: string(models.StatusExpired)},
	}
}

// legacyEvents 旧版地理围栏直接签到流程（兼容路径）的转换表：
// 跳过两侧闸机核验，签到与离场均由围栏判定把关。
// 与主路径共用同一状态枚举，迁移中的预约保持有效
func legacyEvents() fsm.Events {
	return fsm.Events{
		{Name: EventCheckIn, Src: []string{string(models.StatusConfirmed)}, Dst: string(models.StatusCheckedIn)},
		{Name: EventConfirmCheckout, Src: []string{string(models.StatusCheckedIn)}, Dst: string(models.StatusCheckedOut)},
		{Name: EventCancel, Src: []string{string(models.StatusConfirmed)}, Dst: string(models.StatusCancelled)},
		{Name: EventExpire, Src: []string{string(models.StatusConfirmed)}, Dst: string(models.StatusExpired)},
	}
}

// Machine 预约生命周期状态机。每次转换按预约当前状态即时构建，
// 权威状态存于数据库，由 CAS 更新保证串行化
type Machine struct {
	fsm *fsm.FSM
}

// NewMachine 按流程变体和当前状态构建状态机
func NewMachine(flow models.BookingFlow, current models.BookingStatus) *Machine {
	var events fsm.Events
	switch flow {
	case models.FlowLegacy:
		events = legacyEvents()
	default:
		events = gatedEvents()
	}

	return &Machine{
		fsm: fsm.NewFSM(string(current), events, fsm.Callbacks{}),
	}
}

// Can 检查当前状态下事件是否可触发
func (m *Machine) Can(event string) bool {
	return m.fsm.Can(event)
}

// Fire 触发事件并返回目标状态。当前状态无此转换边时返回
// ErrInvalidStateTransition，绝不静默纠正
func (m *Machine) Fire(ctx context.Context, event string) (models.BookingStatus, error) {
	from := m.fsm.Current()
	if err := m.fsm.Event(ctx, event); err != nil {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidStateTransition, event, from)
	}
	return models.BookingStatus(m.fsm.Current()), nil
}
