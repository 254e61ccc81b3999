package geofence

import (
	"errors"
	"math"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

// 地球平均半径（米），haversine 计算用
const earthRadiusM = 6371000.0

// ErrNoCenters 未配置任何停车场围栏
var ErrNoCenters = errors.New("no parking centers configured")

// ErrLowAccuracy 上报的 GPS 精度低于可信门槛，拒绝参与围栏判定
var ErrLowAccuracy = errors.New("reported gps accuracy too low")

// Result 围栏判定结果
type Result struct {
	IsWithin            bool   `json:"is_within"`
	DistanceMeters      int    `json:"distance_meters"`
	AllowedRadiusMeters int    `json:"allowed_radius_meters"`
	LocationName        string `json:"location_name"`
}

// Validator 围栏校验器：对一组命名停车场圆心做半径判定
type Validator struct {
	maxAccuracyM float64
}

// NewValidator 创建校验器，maxAccuracyM 为可接受的最大 GPS 精度（米）
func NewValidator(maxAccuracyM float64) *Validator {
	return &Validator{maxAccuracyM: maxAccuracyM}
}

// Validate 校验坐标是否落在指定围栏内
func (v *Validator) Validate(lat, lng, accuracyM float64, center models.ParkingCenter) (*Result, error) {
	if err := v.checkAccuracy(accuracyM); err != nil {
		return nil, err
	}
	dist := Distance(lat, lng, center.Latitude, center.Longitude)
	return &Result{
		IsWithin:            dist <= float64(center.RadiusMeters),
		DistanceMeters:      int(math.Round(dist)),
		AllowedRadiusMeters: center.RadiusMeters,
		LocationName:        center.Name,
	}, nil
}

// ValidateAny 对全部围栏做 OR 判定：命中任意一个即通过；
// 全部未命中时返回距离最近的那个，保证错误提示可操作且确定
func (v *Validator) ValidateAny(lat, lng, accuracyM float64, centers []models.ParkingCenter) (*Result, error) {
	if err := v.checkAccuracy(accuracyM); err != nil {
		return nil, err
	}
	if len(centers) == 0 {
		return nil, ErrNoCenters
	}

	var nearest *Result
	for _, c := range centers {
		dist := Distance(lat, lng, c.Latitude, c.Longitude)
		r := &Result{
			IsWithin:            dist <= float64(c.RadiusMeters),
			DistanceMeters:      int(math.Round(dist)),
			AllowedRadiusMeters: c.RadiusMeters,
			LocationName:        c.Name,
		}
		if r.IsWithin {
			return r, nil
		}
		if nearest == nil || r.DistanceMeters < nearest.DistanceMeters {
			nearest = r
		}
	}
	return nearest, nil
}

func (v *Validator) checkAccuracy(accuracyM float64) error {
	if v.maxAccuracyM > 0 && accuracyM > v.maxAccuracyM {
		return ErrLowAccuracy
	}
	return nil
}

// Distance 两坐标间大圆距离（米），haversine 公式。
// 百米级半径判定下平面近似误差不可接受，必须用球面公式
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}
