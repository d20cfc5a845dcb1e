package geospatial

import (
	"math"
	"strings"
)

// DefaultDisclaimer accompanies every straight-line estimate.
const DefaultDisclaimer = "Route calculée en ligne droite. Les conditions réelles peuvent varier."

// DefaultCurrency is the currency estimated prices are expressed in.
const DefaultCurrency = "FCFA"

// CostModel turns a distance into travel time and price.
type CostModel interface {
	DurationMinutes(distanceKm float64) float64
	Price(distanceKm float64) float64
}

// LinearModel charges a fixed number of minutes and currency units per kilometre.
type LinearModel struct {
	MinutesPerKm float64
	PricePerKm   float64
}

// DefaultModel is 2 minutes and 100 currency units per kilometre.
var DefaultModel = LinearModel{MinutesPerKm: 2, PricePerKm: 100}

func (m LinearModel) DurationMinutes(distanceKm float64) float64 {
	return roundTo(distanceKm*m.MinutesPerKm, 1)
}

func (m LinearModel) Price(distanceKm float64) float64 {
	return roundTo(distanceKm*m.PricePerKm, 2)
}

// Estimate is a straight-line travel estimate between two entities.
type Estimate struct {
	OriginID        string
	DestinationID   string
	DistanceKm      float64
	DurationMinutes float64
	EstimatedPrice  float64
	Currency        string
	Disclaimer      string
	AdditionalInfo  string
	Path            []Point
}

// Estimator produces Estimates with a given cost model. It holds no state
// between calls and is safe for concurrent use.
type Estimator struct {
	model      CostModel
	disclaimer string
	currency   string
}

// EstimatorOption customises an Estimator.
type EstimatorOption func(*Estimator)

// WithDisclaimer overrides DefaultDisclaimer.
func WithDisclaimer(text string) EstimatorOption {
	return func(e *Estimator) { e.disclaimer = text }
}

// WithCurrency overrides DefaultCurrency.
func WithCurrency(code string) EstimatorOption {
	return func(e *Estimator) { e.currency = code }
}

// NewEstimator creates an Estimator. A nil model falls back to DefaultModel.
func NewEstimator(model CostModel, opts ...EstimatorOption) *Estimator {
	if model == nil {
		model = DefaultModel
	}
	e := &Estimator{model: model, disclaimer: DefaultDisclaimer, currency: DefaultCurrency}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Estimate computes the straight-line route from origin to destination.
// Duration and price derive from the rounded distance so the three figures
// shown together stay consistent.
func (e *Estimator) Estimate(origin, destination Entity, extraNote string) Estimate {
	from, to := origin.Point(), destination.Point()
	distance := DistanceKm(from, to)

	return Estimate{
		OriginID:        origin.EntityID(),
		DestinationID:   destination.EntityID(),
		DistanceKm:      distance,
		DurationMinutes: e.model.DurationMinutes(distance),
		EstimatedPrice:  e.model.Price(distance),
		Currency:        e.currency,
		Disclaimer:      e.disclaimer,
		AdditionalInfo:  strings.TrimSpace(extraNote),
		Path:            []Point{from, to},
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
