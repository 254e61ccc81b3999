package geofence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazmin4787/parkmatrix-sub000/internal/geofence"
	"github.com/Nazmin4787/parkmatrix-sub000/internal/models"
)

const (
	centerLat = 12.9716
	centerLng = 77.5946
)

func collegeCenter() models.ParkingCenter {
	return models.ParkingCenter{
		Name:         "COLLEGE_PARKING_CENTER",
		Latitude:     centerLat,
		Longitude:    centerLng,
		RadiusMeters: 500,
	}
}

// 纬度方向每度约 111320 米，northOf 返回向正北偏移 meters 米的纬度
func northOf(lat, meters float64) float64 {
	return lat + meters/111320.0
}

func TestDistance_Symmetric(t *testing.T) {
	lat2, lng2 := 12.9352, 77.6245

	d1 := geofence.Distance(centerLat, centerLng, lat2, lng2)
	d2 := geofence.Distance(lat2, lng2, centerLat, centerLng)

	assert.InDelta(t, d1, d2, 1e-6)
	assert.Greater(t, d1, 0.0)
}

func TestDistance_SamePoint(t *testing.T) {
	assert.InDelta(t, 0.0, geofence.Distance(centerLat, centerLng, centerLat, centerLng), 1e-6)
}

func TestValidate_WithinRadius(t *testing.T) {
	v := geofence.NewValidator(100)

	res, err := v.Validate(northOf(centerLat, 200), centerLng, 10, collegeCenter())
	require.NoError(t, err)
	assert.True(t, res.IsWithin)
	assert.InDelta(t, 200, res.DistanceMeters, 5)
	assert.Equal(t, "COLLEGE_PARKING_CENTER", res.LocationName)
}

func TestValidate_OutsideReportsDistance(t *testing.T) {
	v := geofence.NewValidator(100)

	// 圆心正北 600 米，超出 500 米半径
	res, err := v.Validate(northOf(centerLat, 600), centerLng, 10, collegeCenter())
	require.NoError(t, err)
	assert.False(t, res.IsWithin)
	assert.InDelta(t, 600, res.DistanceMeters, 10)
	assert.Equal(t, 500, res.AllowedRadiusMeters)
}

func TestValidate_LowAccuracyRejected(t *testing.T) {
	v := geofence.NewValidator(100)

	_, err := v.Validate(centerLat, centerLng, 150, collegeCenter())
	assert.ErrorIs(t, err, geofence.ErrLowAccuracy)
}

func TestValidateAny_HitAnyCenter(t *testing.T) {
	v := geofence.NewValidator(100)
	far := models.ParkingCenter{Name: "FAR", Latitude: 13.2, Longitude: 77.9, RadiusMeters: 300}

	res, err := v.ValidateAny(centerLat, centerLng, 10, []models.ParkingCenter{far, collegeCenter()})
	require.NoError(t, err)
	assert.True(t, res.IsWithin)
	assert.Equal(t, "COLLEGE_PARKING_CENTER", res.LocationName)
}

func TestValidateAny_AllMissReturnsNearest(t *testing.T) {
	v := geofence.NewValidator(100)
	near := collegeCenter()
	far := models.ParkingCenter{Name: "FAR", Latitude: 13.2, Longitude: 77.9, RadiusMeters: 300}

	lat := northOf(centerLat, 800)
	first, err := v.ValidateAny(lat, centerLng, 10, []models.ParkingCenter{far, near})
	require.NoError(t, err)
	assert.False(t, first.IsWithin)
	assert.Equal(t, "COLLEGE_PARKING_CENTER", first.LocationName)
	assert.InDelta(t, 800, first.DistanceMeters, 10)

	// 围栏顺序不影响结果
	second, err := v.ValidateAny(lat, centerLng, 10, []models.ParkingCenter{near, far})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateAny_NoCenters(t *testing.T) {
	v := geofence.NewValidator(100)

	_, err := v.ValidateAny(centerLat, centerLng, 10, nil)
	assert.ErrorIs(t, err, geofence.ErrNoCenters)
}
