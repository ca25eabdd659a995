// Package sim provides the Monte Carlo engine for a one-dimensional
// asymmetric attractive interacting particle system on a ring.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - rates.go: normalized transition probabilities and the (a,b) lookup table
//   - initial.go: the two-phase product measure the ring starts from
//   - engine.go: the per-replica event loop and shot scheduling
//   - simulator.go: replicas over a worker pool, reduction and finalization
//
// # Model
//
// Each site holds -1 (hole), 0 (neutral) or +1 (particle). The jump process
// has rates c(0,-) = (1-A)/2, c(+,0) = (1+A)/2, c(+,-) = 1 and c(0,0) = B on
// ordered nearest-neighbour pairs; all other rates are zero. Rates are
// normalized by 2+B and then by their maximum (time acceleration).
//
// # Sub-packages
//   - sim/trace/: optional per-replica transition statistics
//   - sim/profile/: text serialization and per-shot statistics of a Profile
package sim
