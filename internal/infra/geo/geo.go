// Package geo provides pure great-circle math over orb points.
// Points follow orb's lon/lat ordering.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusKm = 6371.0

// Haversine calculates the great circle distance between two points in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Distance is Haversine over orb points.
func Distance(a, b orb.Point) float64 {
	return Haversine(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// Bearing returns the initial bearing in degrees [0, 360) from a to b.
func Bearing(a, b orb.Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	deltaLon := (b.Lon() - a.Lon()) * math.Pi / 180

	y := math.Sin(deltaLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(deltaLon)

	bearing := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearing+360, 360)
}

// Interpolate returns the point a fraction f of the way from a to b along a
// straight line in coordinate space. f is clamped to [0, 1].
func Interpolate(a, b orb.Point, f float64) orb.Point {
	f = math.Max(0, math.Min(1, f))

	return orb.Point{
		a[0] + (b[0]-a[0])*f,
		a[1] + (b[1]-a[1])*f,
	}
}

// StraightLinePath synthesizes a polyline from a to b with the given number
// of evenly spaced interior points, endpoints included.
func StraightLinePath(a, b orb.Point, interior int) orb.LineString {
	if interior < 0 {
		interior = 0
	}

	path := make(orb.LineString, 0, interior+2)
	path = append(path, a)
	for i := 1; i <= interior; i++ {
		path = append(path, Interpolate(a, b, float64(i)/float64(interior+1)))
	}
	path = append(path, b)

	return path
}

// IsValidLatLon reports whether a latitude/longitude pair is finite and in range.
func IsValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
