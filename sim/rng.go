package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// RandomSource supplies uniform variates in [0, 1).
// *rand.Rand satisfies it; tests substitute scripted sources.
type RandomSource interface {
	Float64() float64
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical shot tables.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemReplica returns the subsystem name for replica k.
func SubsystemReplica(k int) string {
	return fmt.Sprintf("replica_%d", k)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per replica.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Because every replica owns its stream, the draws of replica k do not depend
// on which worker runs it or on how many replicas ran before it.
//
// Thread-safety: ForSubsystem and ForReplica are NOT thread-safe (they share
// the cache). NewReplicaStream only reads the key and may be called from any
// goroutine; each returned *rand.Rand must be used by exactly one goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.DeriveSeed(name)))
	p.subsystems[name] = rng
	return rng
}

// ForReplica returns the RNG stream of replica k.
func (p *PartitionedRNG) ForReplica(k int) *rand.Rand {
	return p.ForSubsystem(SubsystemReplica(k))
}

// NewReplicaStream returns a fresh, uncached RNG positioned at the start of
// replica k's stream. It yields the same sequence as ForReplica(k) would on a
// new PartitionedRNG.
func (p *PartitionedRNG) NewReplicaStream(k int) *rand.Rand {
	return rand.New(rand.NewSource(p.DeriveSeed(SubsystemReplica(k))))
}

// DeriveSeed returns the seed ForSubsystem uses for name.
func (p *PartitionedRNG) DeriveSeed(name string) int64 {
	return int64(p.key) ^ fnv1a64(name)
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
