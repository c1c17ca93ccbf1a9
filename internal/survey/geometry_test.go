package survey

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestReduceShotMissingReadings(t *testing.T) {
	east, north, up := ReduceShot(nil, f(45), f(5))
	assert.Zero(t, east)
	assert.Zero(t, north)
	assert.Zero(t, up)

	east, north, up = ReduceShot(f(10), nil, f(5))
	assert.Zero(t, east)
	assert.Zero(t, north)
	assert.Zero(t, up)

	east, north, up = ReduceShot(f(10), f(45), nil)
	assert.Zero(t, east)
	assert.Zero(t, north)
	assert.Zero(t, up)
}

func TestReduceShotDueNorth(t *testing.T) {
	east, north, up := ReduceShot(f(10), f(0), f(0))
	assert.InDelta(t, 0, east, 1e-9)
	assert.InDelta(t, 10, north, 1e-9)
	assert.InDelta(t, 0, up, 1e-9)
}

func TestReduceShotInclined(t *testing.T) {
	d, az, inc := 25.5, 45.0, 5.0
	east, north, up := ReduceShot(f(d), f(az), f(inc))

	horizontal := d * math.Cos(inc*math.Pi/180)
	assert.InDelta(t, horizontal*math.Sin(az*math.Pi/180), east, 1e-9)
	assert.InDelta(t, horizontal*math.Cos(az*math.Pi/180), north, 1e-9)
	assert.InDelta(t, d*math.Sin(inc*math.Pi/180), up, 1e-9)

	// Reduced displacement preserves the tape length.
	assert.InDelta(t, d, math.Sqrt(east*east+north*north+up*up), 1e-9)
}

func TestReduceShotVertical(t *testing.T) {
	east, north, up := ReduceShot(f(12), f(270), f(90))
	assert.InDelta(t, 0, east, 1e-9)
	assert.InDelta(t, 0, north, 1e-9)
	assert.InDelta(t, 12, up, 1e-9)
}

func TestAzimuthVariance(t *testing.T) {
	assert.Nil(t, AzimuthVariance(nil, f(225)))
	assert.Nil(t, AzimuthVariance(f(45), nil))

	v := AzimuthVariance(f(45), f(225))
	require.NotNil(t, v)
	assert.InDelta(t, 0, *v, 1e-9)

	v = AzimuthVariance(f(45), f(220))
	require.NotNil(t, v)
	assert.InDelta(t, 5, *v, 1e-9)
}

func TestAzimuthVarianceWrapAround(t *testing.T) {
	v := AzimuthVariance(f(1), f(181))
	require.NotNil(t, v)
	assert.InDelta(t, 0, *v, 1e-9)

	v = AzimuthVariance(f(359), f(179))
	require.NotNil(t, v)
	assert.InDelta(t, 0, *v, 1e-9)

	// fs=359, bs=181 reads as 2° of disagreement across north.
	v = AzimuthVariance(f(359), f(181))
	require.NotNil(t, v)
	assert.InDelta(t, 2, *v, 1e-9)
}

func TestInclinationVariance(t *testing.T) {
	assert.Nil(t, InclinationVariance(nil, f(-5)))
	assert.Nil(t, InclinationVariance(f(5), nil))

	v := InclinationVariance(f(5), f(-5))
	require.NotNil(t, v)
	assert.InDelta(t, 0, *v, 1e-9)

	v = InclinationVariance(f(5), f(-3))
	require.NotNil(t, v)
	assert.InDelta(t, 2, *v, 1e-9)
}

func TestCenterlineEmpty(t *testing.T) {
	wkbBytes, err := Centerline(nil)
	require.NoError(t, err)
	assert.Nil(t, wkbBytes)

	geo, err := CenterlineGeoJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, geo)
}

func TestCenterlineRoundTrip(t *testing.T) {
	shots := []ShotRecord{
		{FromStation: "A1", ToStation: "A2", Distance: f(10), AzimuthFs: f(0), InclinationFs: f(0)},
		{FromStation: "A2", ToStation: "A3", Distance: f(10), AzimuthFs: f(90), InclinationFs: f(0)},
	}

	wkbBytes, err := Centerline(shots)
	require.NoError(t, err)
	require.NotEmpty(t, wkbBytes)

	geo, err := CenterlineGeoJSON(wkbBytes)
	require.NoError(t, err)
	assert.True(t, strings.Contains(geo, "LineString"))
	// Origin plus one station per shot.
	assert.Equal(t, 3, strings.Count(geo, "[")-1)
}

func TestCenterlineSkipsIncompleteShots(t *testing.T) {
	shots := []ShotRecord{
		{FromStation: "A1", ToStation: "A2", Distance: f(10), AzimuthFs: f(0), InclinationFs: f(0)},
		{FromStation: "A2", ToStation: "A3"}, // no readings, repeats the station
	}

	wkbBytes, err := Centerline(shots)
	require.NoError(t, err)

	geo, err := CenterlineGeoJSON(wkbBytes)
	require.NoError(t, err)
	assert.True(t, strings.Contains(geo, "LineString"))
}
