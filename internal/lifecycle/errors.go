package lifecycle

import (
	"errors"
	"fmt"
)

// 状态机错误分类。所有错误原样上抛，由 API 层翻译为 HTTP 响应，
// 本层不吞错误也不自动重试
var (
	// ErrInvalidStateTransition 当前状态下不存在请求的转换边，拒绝而非纠正
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrConflictingTransition CAS 更新竞争失败，重新获取状态后可安全重试一次
	ErrConflictingTransition = errors.New("conflicting transition")

	// ErrSecretMismatch 取车码不匹配。不携带任何细节，避免暴力枚举泄露
	ErrSecretMismatch = errors.New("secret code mismatch")

	// ErrSlotUnavailable 车位在请求时段内已有非终态预约
	ErrSlotUnavailable = errors.New("slot unavailable for requested window")

	// ErrNotFound 未找到匹配的预约/车位/费率
	ErrNotFound = errors.New("not found")

	// ErrOverstayUnpaid 存在未结清的超时费，阻塞终态转换；支付记录后可重试
	ErrOverstayUnpaid = errors.New("overstay amount unpaid")

	// ErrInvalidInput 请求参数不合法
	ErrInvalidInput = errors.New("invalid input")
)

// OutsideGeofenceError 坐标在围栏之外。携带距离供客户端提示
// “你距离停车场还有 X 米”，用户移动后可重试
type OutsideGeofenceError struct {
	DistanceMeters      int
	AllowedRadiusMeters int
	LocationName        string
}

func (e *OutsideGeofenceError) Error() string {
	return fmt.Sprintf("outside geofence of %s: %dm away, allowed %dm",
		e.LocationName, e.DistanceMeters, e.AllowedRadiusMeters)
}
