package sim

import (
	"fmt"
	"math"
)

// Ring is the lattice: one occupation state per site, indices taken modulo
// its length.
type Ring []int8

// NewRing allocates a ring of n neutral sites.
func NewRing(n int) Ring {
	return make(Ring, n)
}

// Sum returns the net charge (particles minus holes) of the ring.
func (r Ring) Sum() int {
	total := 0
	for _, v := range r {
		total += int(v)
	}
	return total
}

// SiteMeasure is the single-site marginal of the product initial measure at a
// given density: P(hole), P(neutral) and P(particle).
type SiteMeasure struct {
	Density  float64
	Theta    float64 // fugacity
	Hole     float64
	Neutral  float64
	Particle float64
}

// pairParameter returns p(B) = 1 / (1/sqrt(B) + 2).
func pairParameter(b float64) float64 {
	return 1 / (1/math.Sqrt(b) + 2)
}

// fugacity returns the positive root theta(v, p) matching density v.
func fugacity(v, p float64) float64 {
	return (v*(1-2*p) + math.Sqrt(4*p*p+v*v-4*p*v*v)) / (2 * p * (1 - v))
}

// NewSiteMeasure computes the site marginal for density v at rate b.
// v must lie in (0, 1) and b must be positive so that p(b) lies in (0, 1).
func NewSiteMeasure(v, b float64) (SiteMeasure, error) {
	if err := validateFinite("density", v); err != nil {
		return SiteMeasure{}, err
	}
	if err := validateFinite("rate", b); err != nil {
		return SiteMeasure{}, err
	}
	if v <= 0 || v >= 1 {
		return SiteMeasure{}, fmt.Errorf("%w: density must be in (0, 1), got %f", ErrConfiguration, v)
	}
	p := pairParameter(b)
	if !(p > 0 && p < 1) {
		return SiteMeasure{}, fmt.Errorf("%w: rate %f gives pair parameter %f outside (0, 1)", ErrConfiguration, b, p)
	}

	discriminant := 4*p*p + v*v - 4*p*v*v
	if discriminant < 0 {
		return SiteMeasure{}, fmt.Errorf("%w: density %f and rate %f give a negative discriminant", ErrConfiguration, v, b)
	}
	theta := fugacity(v, p)
	if math.IsNaN(theta) || math.IsInf(theta, 0) || theta <= 0 {
		return SiteMeasure{}, fmt.Errorf("%w: density %f and rate %f give fugacity %f", ErrConfiguration, v, b, theta)
	}
	z := 1 + p*(theta+1/theta-2)

	m := SiteMeasure{
		Density: v,
		Theta:   theta,
		Hole:    p / theta / z,
		Neutral: (1 - 2*p) / z,
	}
	m.Particle = 1 - m.Hole - m.Neutral
	for _, prob := range []float64{m.Hole, m.Neutral, m.Particle} {
		if math.IsNaN(prob) || prob < 0 || prob > 1 {
			return SiteMeasure{}, fmt.Errorf("%w: density %f and rate %f give site probabilities (%f, %f, %f)",
				ErrConfiguration, v, b, m.Hole, m.Neutral, m.Particle)
		}
	}
	return m, nil
}

// Mean returns the expected occupation value P(particle) - P(hole).
func (m SiteMeasure) Mean() float64 {
	return m.Particle - m.Hole
}

// Sample draws one site state using a single uniform variate.
func (m SiteMeasure) Sample(src RandomSource) int8 {
	u := src.Float64()
	switch {
	case u < m.Hole:
		return Hole
	case u < m.Hole+m.Neutral:
		return Neutral
	default:
		return Particle
	}
}

// StepInitializer fills a ring with the two-phase (Riemann) product measure:
// sites [0, N/2) from Left, sites [N/2, N) from Right.
type StepInitializer struct {
	Left  SiteMeasure
	Right SiteMeasure
}

// NewStepInitializer validates both densities at rate b.
func NewStepInitializer(vl, vr, b float64) (*StepInitializer, error) {
	left, err := NewSiteMeasure(vl, b)
	if err != nil {
		return nil, fmt.Errorf("left density: %w", err)
	}
	right, err := NewSiteMeasure(vr, b)
	if err != nil {
		return nil, fmt.Errorf("right density: %w", err)
	}
	return &StepInitializer{Left: left, Right: right}, nil
}

// Fill overwrites every site of ring, drawing sites in index order.
func (si *StepInitializer) Fill(ring Ring, src RandomSource) {
	half := len(ring) / 2
	for i := 0; i < half; i++ {
		ring[i] = si.Left.Sample(src)
	}
	for i := half; i < len(ring); i++ {
		ring[i] = si.Right.Sample(src)
	}
}
