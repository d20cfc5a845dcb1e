package geospatial

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	yaounde      = Point{Lat: 3.8667, Lon: 11.5167}
	douala       = Point{Lat: 4.0511, Lon: 9.7679}
	montCameroun = Point{Lat: 4.2156, Lon: 9.1712}
	lobe         = Point{Lat: 2.8794, Lon: 9.8880}
)

func TestExactDistanceKm_KnownPairs(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		min, max float64
	}{
		{"yaounde-douala", yaounde, douala, 194.5, 195.5},
		{"mont cameroun-lobe", montCameroun, lobe, 168.0, 169.0},
		{"one degree of latitude", Point{0, 0}, Point{1, 0}, 111.1, 111.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ExactDistanceKm(tt.a, tt.b)
			assert.GreaterOrEqual(t, d, tt.min)
			assert.LessOrEqual(t, d, tt.max)
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	points := []Point{yaounde, douala, montCameroun, lobe, {-33.9, 18.4}, {64.1, -21.9}, {0, 179.9}, {0, -179.9}}
	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, ExactDistanceKm(a, b), ExactDistanceKm(b, a), 1e-12, "%v <-> %v", a, b)
			assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a), "%v <-> %v", a, b)
		}
	}
}

func TestDistanceKm_Identity(t *testing.T) {
	for _, p := range []Point{yaounde, montCameroun, {90, 0}, {-90, 180}, {0, 0}} {
		assert.InDelta(t, 0, ExactDistanceKm(p, p), 1e-9)
		assert.Equal(t, 0.0, DistanceKm(p, p))
	}
}

func TestDistanceKm_RoundsToOneDecimal(t *testing.T) {
	d := DistanceKm(montCameroun, lobe)
	assert.Equal(t, 168.5, d)
	assert.Equal(t, d, math.Round(d*10)/10)
}

func TestDistanceKm_AntimeridianTakesShortWay(t *testing.T) {
	d := ExactDistanceKm(Point{0, 179.5}, Point{0, -179.5})
	assert.InDelta(t, 111.2, d, 0.2)
}

func TestDistanceKm_NaNPropagates(t *testing.T) {
	assert.True(t, math.IsNaN(ExactDistanceKm(Point{math.NaN(), 0}, yaounde)))
	assert.True(t, math.IsNaN(DistanceKm(yaounde, Point{0, math.NaN()})))
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 0.5, RoundKm(0.52))
	assert.Equal(t, 0.9, RoundKm(0.926))
	assert.Equal(t, 195.1, RoundKm(195.074))
	assert.Equal(t, 0.0, RoundKm(0.04))
}

func TestPoint_Validate(t *testing.T) {
	require.NoError(t, yaounde.Validate())
	require.NoError(t, Point{90, 180}.Validate())
	require.NoError(t, Point{-90, -180}.Validate())

	for _, p := range []Point{
		{90.0001, 0},
		{-91, 0},
		{0, 180.5},
		{0, -181},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	} {
		err := p.Validate()
		require.Error(t, err, "%v", p)
		assert.True(t, errors.Is(err, ErrInvalidCoordinate))
	}
}

// inside reports whether p lies in b, edges included.
func inside(b Bounds, p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	box := BoundingBox(montCameroun, 50)
	assert.True(t, inside(box, montCameroun))
	assert.Less(t, box.MinLat, montCameroun.Lat)
	assert.Greater(t, box.MaxLon, montCameroun.Lon)

	// Points exactly on the radius in the four cardinal directions stay inside.
	latDelta := 50 / kmPerDegree
	for _, p := range []Point{
		{montCameroun.Lat + latDelta, montCameroun.Lon},
		{montCameroun.Lat - latDelta, montCameroun.Lon},
	} {
		assert.True(t, inside(box, p), "%v", p)
	}

	// Douala is 68.6 km away.
	assert.False(t, inside(BoundingBox(montCameroun, 10), douala))
}

func TestBoundingBox_EveryPointWithinRadiusIsInside(t *testing.T) {
	center := Point{Lat: 4.0, Lon: 10.0}
	const radius = 120.0
	box := BoundingBox(center, radius)

	for lat := -2.0; lat <= 10; lat += 0.05 {
		for lon := 4.0; lon <= 16; lon += 0.05 {
			p := Point{lat, lon}
			if ExactDistanceKm(center, p) <= radius {
				require.True(t, inside(box, p), "%v within %v km but outside box", p, radius)
			}
		}
	}
}

func TestBoundingBox_Poles(t *testing.T) {
	box := BoundingBox(Point{Lat: 89.9, Lon: 0}, 50)
	assert.Equal(t, 90.0, box.MaxLat)
	assert.Equal(t, -180.0, box.MinLon)
	assert.Equal(t, 180.0, box.MaxLon)
}

func TestBoundingBox_NegativeRadius(t *testing.T) {
	box := BoundingBox(yaounde, -5)
	assert.Equal(t, yaounde.Lat, box.MinLat)
	assert.Equal(t, yaounde.Lat, box.MaxLat)
}
