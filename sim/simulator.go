package sim

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ipsim/ipsim/sim/trace"
)

// progressEvery is the replica interval of the info-level progress line.
const progressEvery = 50

// Simulator drives Config.Replicas independent replicas of the jump process
// and averages their shots.
//
// Replica k always draws from stream k of the PartitionedRNG, and shot sums
// are integers, so the resulting Profile depends only on (Config, key), never
// on Config.Workers or goroutine scheduling.
type Simulator struct {
	Config      Config
	Rates       RateTable
	Initializer *StepInitializer

	// Stats aggregates the ReplicaStats of every replica of the last Run.
	Stats ReplicaStats
	// Trace is non-nil when tracing is enabled via SetTrace.
	Trace *trace.SimulationTrace

	rng *PartitionedRNG
}

// NewSimulator validates cfg and prepares the rate table and initial measure.
// Every configuration error surfaces here, before any elementary step.
func NewSimulator(cfg Config, key SimulationKey) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rates, err := NewRateTable(cfg.Asymmetry, cfg.Rate)
	if err != nil {
		return nil, err
	}
	initializer, err := NewStepInitializer(cfg.LeftDensity, cfg.RightDensity, cfg.Rate)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		Config:      cfg,
		Rates:       rates,
		Initializer: initializer,
		rng:         NewPartitionedRNG(key),
	}, nil
}

// Key returns the simulation key the replica streams derive from.
func (s *Simulator) Key() SimulationKey {
	return s.rng.Key()
}

// SetTrace enables or disables per-replica trace recording for the next Run.
func (s *Simulator) SetTrace(config trace.TraceConfig) {
	if !config.Enabled() {
		s.Trace = nil
		return
	}
	s.Trace = trace.NewSimulationTrace(config)
}

// Run executes all replicas and returns the finalized mean profile.
// Cancelling ctx aborts the whole run; no partial profile is returned.
func (s *Simulator) Run(ctx context.Context) (*Profile, error) {
	cfg := s.Config
	workers := min(cfg.Workers, cfg.Replicas)

	partials := make([]*ShotTable, workers)
	stats := make([]ReplicaStats, cfg.Replicas)
	var next, completed atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		table := NewShotTable(cfg.Shots, cfg.RingSize)
		partials[w] = table
		eg.Go(func() error {
			ring := NewRing(cfg.RingSize)
			engine := NewEngine(s.Rates, cfg.DtShot, cfg.Shots)
			for {
				k := int(next.Add(1)) - 1
				if k >= cfg.Replicas {
					return nil
				}
				if err := egCtx.Err(); err != nil {
					return err
				}
				src := s.rng.NewReplicaStream(k)
				s.Initializer.Fill(ring, src)
				stats[k] = engine.Run(ring, src, table)
				table.CompleteReplica()

				done := completed.Add(1)
				logrus.Debugf("replica %d finished (%d attempts, net charge %d)", k, stats[k].Attempts, ring.Sum())
				if done%progressEvery == 0 {
					logrus.Infof("%d/%d replicas done", done, cfg.Replicas)
				}
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("running replicas: %w", err)
	}

	total := partials[0]
	for _, p := range partials[1:] {
		if err := total.Merge(p); err != nil {
			return nil, err
		}
	}
	if total.Replicas() != cfg.Replicas {
		return nil, fmt.Errorf("accumulated %d replicas, want %d", total.Replicas(), cfg.Replicas)
	}

	s.Stats = ReplicaStats{}
	for k, rs := range stats {
		s.Stats.Add(rs)
		if s.Trace != nil {
			s.Trace.RecordReplica(replicaRecord(k, rs))
		}
	}

	return total.Finalize(cfg.Replicas)
}

// replicaRecord converts engine counters into a trace record keyed by kind name.
func replicaRecord(k int, rs ReplicaStats) trace.ReplicaRecord {
	rec := trace.ReplicaRecord{
		Replica:   k,
		SiteDraws: rs.SiteDraws,
		Attempts:  rs.Attempts,
		Proposed:  make(map[string]int64),
		Accepted:  make(map[string]int64),
	}
	for kind := TransitionKind(0); kind < numTransitionKinds; kind++ {
		if rs.Proposed[kind] > 0 {
			rec.Proposed[kind.String()] = rs.Proposed[kind]
		}
		if rs.Accepted[kind] > 0 {
			rec.Accepted[kind.String()] = rs.Accepted[kind]
		}
	}
	return rec
}
