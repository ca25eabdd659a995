package sim

import (
	"fmt"
	"math"
)

// Site occupation states.
const (
	Hole     int8 = -1
	Neutral  int8 = 0
	Particle int8 = 1
)

// RateTable holds the four transition probabilities after time acceleration:
//
//	PA: 0- => -0  (rate (1-A)/2)
//	PB: +0 => 0+  (rate (1+A)/2)
//	PC: +- => 00  (rate 1)
//	PD: 00 => -+  (rate B)
//
// Every raw rate is divided by 2+B and then by the largest of the four, so the
// fastest transition always fires when sampled. Immutable once built.
type RateTable struct {
	PA float64
	PB float64
	PC float64
	PD float64
}

// NewRateTable derives the normalized probabilities from the asymmetry a and
// the rate constant b.
func NewRateTable(a, b float64) (RateTable, error) {
	if err := validateFinite("asymmetry", a); err != nil {
		return RateTable{}, err
	}
	if err := validateFinite("rate", b); err != nil {
		return RateTable{}, err
	}
	if a < -1 || a > 1 {
		return RateTable{}, fmt.Errorf("%w: asymmetry must be in [-1, 1], got %f", ErrConfiguration, a)
	}
	if b < 0 {
		return RateTable{}, fmt.Errorf("%w: rate must be non-negative, got %f", ErrConfiguration, b)
	}

	pa := (1 - a) / 2 / (2 + b)
	pb := (1 + a) / 2 / (2 + b)
	pc := 1 / (2 + b)
	pd := b / (2 + b)

	// time scale (accelerate)
	p0 := math.Max(math.Max(pa, pb), math.Max(pc, pd))
	return RateTable{
		PA: pa / p0,
		PB: pb / p0,
		PC: pc / p0,
		PD: pd / p0,
	}, nil
}

// Max returns the largest of the four probabilities; 1 for any valid table.
func (rt RateTable) Max() float64 {
	return math.Max(math.Max(rt.PA, rt.PB), math.Max(rt.PC, rt.PD))
}

// TransitionKind classifies what happens to an ordered neighbour pair.
type TransitionKind int

const (
	// Blocked: the left site is a hole. The draw does not advance time.
	Blocked TransitionKind = iota
	// Idle: (0,+) or (+,+). Advances time but can never change state.
	Idle
	// HoleExchange: 0- => -0 with probability PA.
	HoleExchange
	// ParticleExchange: +0 => 0+ with probability PB.
	ParticleExchange
	// Annihilation: +- => 00 with probability PC.
	Annihilation
	// Dissociation: 00 => -+ with probability PD.
	Dissociation

	numTransitionKinds
)

var transitionKindNames = [numTransitionKinds]string{
	Blocked:          "blocked",
	Idle:             "idle",
	HoleExchange:     "hole_exchange",
	ParticleExchange: "particle_exchange",
	Annihilation:     "annihilation",
	Dissociation:     "dissociation",
}

func (k TransitionKind) String() string {
	if k < 0 || k >= numTransitionKinds {
		return fmt.Sprintf("TransitionKind(%d)", int(k))
	}
	return transitionKindNames[k]
}

// Transition is the outcome of drawing the ordered pair (a, b).
type Transition struct {
	Kind TransitionKind
	// NextA and NextB replace (a, b) when the transition is accepted.
	NextA, NextB int8
	// Prob is the acceptance probability of a reactive transition.
	Prob float64
}

// Reactive reports whether the pair can change state, i.e. whether an
// acceptance draw is made for it. A reactive pair with Prob 0 (A = ±1)
// still consumes its draw.
func (t Transition) Reactive() bool {
	return t.Kind >= HoleExchange
}

// CountsAsAttempt reports whether drawing this pair advances the shot clock.
func (t Transition) CountsAsAttempt() bool {
	return t.Kind != Blocked
}

// TransitionTable maps every ordered pair (a, b) to its Transition.
// Index with PairIndex(a, b).
type TransitionTable [9]Transition

// PairIndex maps an ordered pair of occupation states to [0, 9).
func PairIndex(a, b int8) int {
	return int(a+1)*3 + int(b+1)
}

// Lookup returns the transition for the ordered pair (a, b).
func (tt *TransitionTable) Lookup(a, b int8) Transition {
	return tt[PairIndex(a, b)]
}

// Transitions builds the lookup table for this rate table.
func (rt RateTable) Transitions() TransitionTable {
	var tt TransitionTable
	for _, a := range []int8{Hole, Neutral, Particle} {
		for _, b := range []int8{Hole, Neutral, Particle} {
			kind := Idle
			if a == Hole {
				kind = Blocked
			}
			tt[PairIndex(a, b)] = Transition{Kind: kind, NextA: a, NextB: b}
		}
	}
	tt[PairIndex(Neutral, Hole)] = Transition{Kind: HoleExchange, NextA: Hole, NextB: Neutral, Prob: rt.PA}
	tt[PairIndex(Neutral, Neutral)] = Transition{Kind: Dissociation, NextA: Hole, NextB: Particle, Prob: rt.PD}
	tt[PairIndex(Particle, Hole)] = Transition{Kind: Annihilation, NextA: Neutral, NextB: Neutral, Prob: rt.PC}
	tt[PairIndex(Particle, Neutral)] = Transition{Kind: ParticleExchange, NextA: Neutral, NextB: Particle, Prob: rt.PB}
	return tt
}
