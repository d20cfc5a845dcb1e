package geospatial

import (
	"errors"
	"fmt"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
	EarthRadiusKm = 6371.0

	kmPerDegree = EarthRadiusKm * math.Pi / 180

	// boxMargin pads BoundingBox so the box never clips a point the exact
	// distance would accept.
	boxMargin = 1.01
)

// ErrInvalidCoordinate is returned by Point.Validate for NaN, infinite or
// out-of-range coordinates.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a WGS 84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether p lies within [-90, 90] x [-180, 180].
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidCoordinate, p.Lon)
	}
	return nil
}

// Bounds is a latitude/longitude box.
type Bounds struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// ExactDistanceKm returns the great-circle distance in kilometres between a and b.
// NaN inputs yield NaN.
func ExactDistanceKm(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// DistanceKm is ExactDistanceKm rounded to one decimal, the precision shown to users.
func DistanceKm(a, b Point) float64 {
	return RoundKm(ExactDistanceKm(a, b))
}

// RoundKm rounds a distance to 0.1 km.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

// BoundingBox returns a box around center that contains every point within radiusKm.
// Near the poles the longitude span is widened to the full range.
func BoundingBox(center Point, radiusKm float64) Bounds {
	if radiusKm < 0 {
		radiusKm = 0
	}
	latDelta := radiusKm * boxMargin / kmPerDegree

	minLat := math.Max(center.Lat-latDelta, -90)
	maxLat := math.Min(center.Lat+latDelta, 90)

	cosLat := math.Cos(toRad(math.Max(math.Abs(minLat), math.Abs(maxLat))))
	if cosLat < 1e-9 {
		return Bounds{MinLat: minLat, MinLon: -180, MaxLat: maxLat, MaxLon: 180}
	}
	lonDelta := radiusKm * boxMargin / (kmPerDegree * cosLat)
	if lonDelta >= 180 {
		return Bounds{MinLat: minLat, MinLon: -180, MaxLat: maxLat, MaxLon: 180}
	}

	return Bounds{
		MinLat: minLat,
		MinLon: math.Max(center.Lon-lonDelta, -180),
		MaxLat: maxLat,
		MaxLon: math.Min(center.Lon+lonDelta, 180),
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
