// Package testutil provides shared test infrastructure for the simulator:
// scripted random sources and float assertion helpers used across sim/ and
// its sub-packages.
package testutil

import (
	"math"
	"testing"
)

// ScriptedSource replays a fixed sequence of uniform variates, cycling when
// exhausted. It satisfies sim.RandomSource.
type ScriptedSource struct {
	Values []float64
	pos    int
	Draws  int // number of Float64 calls so far
}

// NewScriptedSource creates a source replaying values in order.
func NewScriptedSource(values ...float64) *ScriptedSource {
	return &ScriptedSource{Values: values}
}

// Float64 returns the next scripted value.
func (s *ScriptedSource) Float64() float64 {
	v := s.Values[s.pos]
	s.pos = (s.pos + 1) % len(s.Values)
	s.Draws++
	return v
}

// SiteValue returns the uniform variate that selects site i on a ring of n
// sites (the middle of the site's bucket).
func SiteValue(i, n int) float64 {
	return (float64(i) + 0.5) / float64(n)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
