package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipsim/ipsim/sim/internal/testutil"
)

func TestNewRateTable_ProbabilitiesNormalized(t *testing.T) {
	// BDD: for every valid (A, B) all rates lie in [0,1] and the max is exactly 1
	for _, a := range []float64{-1, -0.5, 0, 0.3, 1} {
		for _, b := range []float64{0, 0.005, 0.5, 1, 3, 100} {
			rt, err := NewRateTable(a, b)
			require.NoError(t, err, "A=%v B=%v", a, b)
			for name, p := range map[string]float64{"pa": rt.PA, "pb": rt.PB, "pc": rt.PC, "pd": rt.PD} {
				if p < 0 || p > 1 {
					t.Errorf("A=%v B=%v: %s = %v outside [0,1]", a, b, name, p)
				}
			}
			if rt.Max() != 1 {
				t.Errorf("A=%v B=%v: max = %v, want exactly 1", a, b, rt.Max())
			}
		}
	}
}

func TestNewRateTable_ReferenceValues(t *testing.T) {
	// GIVEN A=0, B=0.005: raw rates 0.25, 0.25, 0.5, 0.0025 (over 2+B)
	rt, err := NewRateTable(0, 0.005)
	require.NoError(t, err)

	// THEN annihilation is the fastest transition and the others scale by it
	assert.Equal(t, 1.0, rt.PC)
	testutil.AssertFloat64Equal(t, "pa", 0.5, rt.PA, 1e-12)
	testutil.AssertFloat64Equal(t, "pb", 0.5, rt.PB, 1e-12)
	testutil.AssertFloat64Equal(t, "pd", 0.005, rt.PD, 1e-12)
}

func TestNewRateTable_LargeRate_DissociationFastest(t *testing.T) {
	rt, err := NewRateTable(0.5, 4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rt.PD)
	testutil.AssertFloat64Equal(t, "pc", 0.25, rt.PC, 1e-12)
	testutil.AssertFloat64Equal(t, "pb", 0.75/4, rt.PB, 1e-12)
	testutil.AssertFloat64Equal(t, "pa", 0.25/4, rt.PA, 1e-12)
}

func TestNewRateTable_InvalidInput_ConfigurationError(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
	}{
		{"asymmetry too large", 1.0001, 0.1},
		{"asymmetry too small", -2, 0.1},
		{"negative rate", 0, -0.001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRateTable(tt.a, tt.b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}

func TestTransitions_ReactivePairs(t *testing.T) {
	rt := RateTable{PA: 0.1, PB: 0.2, PC: 1, PD: 0.4}
	tt := rt.Transitions()

	tests := []struct {
		a, b         int8
		kind         TransitionKind
		nextA, nextB int8
		prob         float64
	}{
		{Neutral, Hole, HoleExchange, Hole, Neutral, 0.1},
		{Neutral, Neutral, Dissociation, Hole, Particle, 0.4},
		{Particle, Hole, Annihilation, Neutral, Neutral, 1},
		{Particle, Neutral, ParticleExchange, Neutral, Particle, 0.2},
	}
	for _, tc := range tests {
		tr := tt.Lookup(tc.a, tc.b)
		assert.Equal(t, tc.kind, tr.Kind, "(%d,%d)", tc.a, tc.b)
		assert.Equal(t, tc.nextA, tr.NextA, "(%d,%d) nextA", tc.a, tc.b)
		assert.Equal(t, tc.nextB, tr.NextB, "(%d,%d) nextB", tc.a, tc.b)
		assert.Equal(t, tc.prob, tr.Prob, "(%d,%d) prob", tc.a, tc.b)
		assert.True(t, tr.Reactive())
		assert.True(t, tr.CountsAsAttempt())
	}
}

func TestTransitions_InertPairs(t *testing.T) {
	tt := RateTable{PA: 1, PB: 1, PC: 1, PD: 1}.Transitions()

	// (0,+) and (+,+) advance time but never change state
	for _, pair := range [][2]int8{{Neutral, Particle}, {Particle, Particle}} {
		tr := tt.Lookup(pair[0], pair[1])
		assert.Equal(t, Idle, tr.Kind)
		assert.True(t, tr.CountsAsAttempt())
		assert.False(t, tr.Reactive())
		assert.Equal(t, pair[0], tr.NextA)
		assert.Equal(t, pair[1], tr.NextB)
	}
	// a hole on the left blocks everything
	for _, b := range []int8{Hole, Neutral, Particle} {
		tr := tt.Lookup(Hole, b)
		assert.Equal(t, Blocked, tr.Kind)
		assert.False(t, tr.CountsAsAttempt())
		assert.False(t, tr.Reactive())
	}
}

func TestTransitions_StatesStayInDomain(t *testing.T) {
	// BDD: no transition can produce a value outside {-1, 0, 1}
	tt := RateTable{PA: 1, PB: 1, PC: 1, PD: 1}.Transitions()
	for i, tr := range tt {
		for _, v := range []int8{tr.NextA, tr.NextB} {
			if v < Hole || v > Particle {
				t.Errorf("entry %d (%s) produces %d", i, tr.Kind, v)
			}
		}
	}
}

func TestTransitions_ConserveNetCharge(t *testing.T) {
	// Every transition keeps a+b unchanged: particles minus holes is conserved.
	tt := RateTable{PA: 1, PB: 1, PC: 1, PD: 1}.Transitions()
	for _, a := range []int8{Hole, Neutral, Particle} {
		for _, b := range []int8{Hole, Neutral, Particle} {
			tr := tt.Lookup(a, b)
			if a+b != tr.NextA+tr.NextB {
				t.Errorf("(%d,%d) -> (%d,%d) changes net charge", a, b, tr.NextA, tr.NextB)
			}
		}
	}
}

func TestPairIndex_Bijective(t *testing.T) {
	seen := make(map[int]bool)
	for _, a := range []int8{Hole, Neutral, Particle} {
		for _, b := range []int8{Hole, Neutral, Particle} {
			idx := PairIndex(a, b)
			if idx < 0 || idx >= 9 || seen[idx] {
				t.Errorf("PairIndex(%d,%d) = %d invalid or duplicate", a, b, idx)
			}
			seen[idx] = true
		}
	}
}

func TestTransitionKind_String(t *testing.T) {
	assert.Equal(t, "dissociation", Dissociation.String())
	assert.Equal(t, "blocked", Blocked.String())
	assert.Equal(t, "TransitionKind(42)", TransitionKind(42).String())
}
