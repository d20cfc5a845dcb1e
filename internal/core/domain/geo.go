package domain

import (
	"fmt"
	"math"

	"github.com/kamertour/kamertour/internal/pkg/geospatial"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Geo converts p for the geospatial package.
func (p GeoPoint) Geo() geospatial.Point {
	return geospatial.Point{Lat: p.Lat, Lon: p.Lon}
}

// Validate rejects NaN and out-of-range coordinates.
func (p GeoPoint) Validate() error {
	if err := p.Geo().Validate(); err != nil {
		return &ValidationError{Field: "location", Message: err.Error()}
	}
	return nil
}

// String formats p as "4.2156° N, 9.1712° E".
func (p GeoPoint) String() string {
	ns, ew := "N", "E"
	if p.Lat < 0 {
		ns = "S"
	}
	if p.Lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f° %s, %.4f° %s", math.Abs(p.Lat), ns, math.Abs(p.Lon), ew)
}

// GeoPointFrom converts a geospatial point back into the domain type.
func GeoPointFrom(p geospatial.Point) GeoPoint {
	return GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

// BoundsFrom converts geospatial bounds into the domain type.
func BoundsFrom(b geospatial.Bounds) Bounds {
	return Bounds{MinLat: b.MinLat, MinLon: b.MinLon, MaxLat: b.MaxLat, MaxLon: b.MaxLon}
}
