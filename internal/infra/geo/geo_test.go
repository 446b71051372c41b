package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Taipei 101 to a point roughly 1km north
	distance := Haversine(25.0330, 121.5654, 25.0425, 121.5649)

	assert.True(t, distance > 0.8, "distance should be greater than 0.8km")
	assert.True(t, distance < 1.5, "distance should be less than 1.5km")
}

func TestHaversine_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{25.0330, 121.5654, 25.0425, 121.5649},
		{-33.8688, 151.2093, 40.7128, -74.0060},
		{0, 0, 0, 180},
		{89.9, 10, -89.9, -170},
	}

	for _, p := range pairs {
		forward := Haversine(p[0], p[1], p[2], p[3])
		backward := Haversine(p[2], p[3], p[0], p[1])
		assert.InDelta(t, forward, backward, 1e-9)
	}
}

func TestHaversine_Identity(t *testing.T) {
	points := [][2]float64{
		{25.0330, 121.5654},
		{0, 0},
		{-90, 0},
		{47.6, -122.3},
	}

	for _, p := range points {
		assert.InDelta(t, 0, Haversine(p[0], p[1], p[0], p[1]), 1e-9)
	}
}

func TestDistance_MatchesHaversine(t *testing.T) {
	a := orb.Point{121.5654, 25.0330}
	b := orb.Point{121.5649, 25.0425}

	assert.InDelta(t, Haversine(25.0330, 121.5654, 25.0425, 121.5649), Distance(a, b), 1e-12)
}

func TestBearing(t *testing.T) {
	origin := orb.Point{0, 0}

	north := Bearing(origin, orb.Point{0, 1})
	east := Bearing(origin, orb.Point{1, 0})
	south := Bearing(origin, orb.Point{0, -1})
	west := Bearing(origin, orb.Point{-1, 0})

	assert.InDelta(t, 0, north, 0.01)
	assert.InDelta(t, 90, east, 0.01)
	assert.InDelta(t, 180, south, 0.01)
	assert.InDelta(t, 270, west, 0.01)
}

func TestInterpolate(t *testing.T) {
	a := orb.Point{10, 20}
	b := orb.Point{20, 40}

	assert.Equal(t, a, Interpolate(a, b, 0))
	assert.Equal(t, b, Interpolate(a, b, 1))

	mid := Interpolate(a, b, 0.5)
	assert.InDelta(t, 15, mid[0], 1e-9)
	assert.InDelta(t, 30, mid[1], 1e-9)

	// Fractions outside [0,1] clamp to the endpoints
	assert.Equal(t, a, Interpolate(a, b, -0.5))
	assert.Equal(t, b, Interpolate(a, b, 1.5))
}

func TestStraightLinePath(t *testing.T) {
	a := orb.Point{121.5654, 25.0330}
	b := orb.Point{121.5649, 25.0425}

	path := StraightLinePath(a, b, 3)

	require.Len(t, path, 5)
	assert.Equal(t, a, path[0])
	assert.Equal(t, b, path[4])

	// Interior points must be strictly between the endpoints
	for i := 1; i < 4; i++ {
		assert.True(t, path[i][1] > a[1] && path[i][1] < b[1],
			"interior point %d should lie between endpoints", i)
	}
}

func TestStraightLinePath_NoInterior(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{1, 1}

	path := StraightLinePath(a, b, 0)
	require.Len(t, path, 2)
	assert.Equal(t, a, path[0])
	assert.Equal(t, b, path[1])

	// Negative interior counts are treated as zero
	assert.Len(t, StraightLinePath(a, b, -2), 2)
}

func TestIsValidLatLon(t *testing.T) {
	valid := [][2]float64{
		{25.0330, 121.5654},
		{-33.8688, 151.2093},
		{0, 0},
		{90, 180},
		{-90, -180},
	}
	for _, p := range valid {
		assert.True(t, IsValidLatLon(p[0], p[1]), "expected valid: %v", p)
	}

	invalid := [][2]float64{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
		{math.NaN(), 0},
		{0, math.NaN()},
		{math.Inf(1), 0},
	}
	for _, p := range invalid {
		assert.False(t, IsValidLatLon(p[0], p[1]), "expected invalid: %v", p)
	}
}
