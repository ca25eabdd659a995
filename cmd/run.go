package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ipsim/ipsim/sim"
	"github.com/ipsim/ipsim/sim/profile"
	"github.com/ipsim/ipsim/sim/trace"
)

var (
	// CLI flags for the run command
	simFlags    runFlags
	configPath  string // YAML config file
	outputPath  string // text profile output
	summaryPath string // per-shot CSV summary output
	traceLevel  string // trace verbosity
)

// outputOptions says where the results of a run go.
type outputOptions struct {
	ProfilePath string
	SummaryPath string
	TraceLevel  trace.TraceLevel
}

// runCmd executes the simulation using parameters from the config layers
var runCmd = &cobra.Command{
	Use:   "run [outfile vl vr]",
	Short: "Run the replica-averaged simulation from a step initial condition",
	Long: "Run SUM independent replicas from a two-density step and write the mean occupation " +
		"profile, one value per line. The positional form 'run OUTFILE VL VR' sets --output, " +
		"--left-density and --right-density.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return fmt.Errorf("expected no positional arguments or exactly [outfile] [vl] [vr], got %d", len(args))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fs := cmd.Flags()
		if len(args) == 3 {
			for i, name := range []string{"output", "left-density", "right-density"} {
				if err := fs.Set(name, args[i]); err != nil {
					logrus.Fatalf("Invalid argument %q for %s: %v", args[i], name, err)
				}
			}
		}
		if outputPath == "" {
			logrus.Fatalf("Output file not provided (--output or positional outfile). Exiting simulation.")
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level %q; valid: none, replicas", traceLevel)
		}

		cfg, err := resolveConfig(fs, &simFlags, configPath, nil)
		if err != nil {
			logrus.Fatalf("Unable to load configuration: %v", err)
		}
		if cfg.Seed == nil {
			seed := time.Now().UnixNano()
			logrus.Infof("No seed configured, seeding from time: %d", seed)
			cfg.Seed = &seed
		}

		out := outputOptions{
			ProfilePath: outputPath,
			SummaryPath: summaryPath,
			TraceLevel:  trace.TraceLevel(traceLevel),
		}
		if err := executeRun(cmd.Context(), cfg, out); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// executeRun validates cfg, runs every replica and writes the outputs.
// Nothing is written unless the whole run completes.
func executeRun(ctx context.Context, cfg sim.Config, out outputOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	seed := cfg.SeedOr(0)
	s, err := sim.NewSimulator(cfg, sim.NewSimulationKey(seed))
	if err != nil {
		return err
	}
	s.SetTrace(trace.TraceConfig{Level: out.TraceLevel})

	logrus.Infof("Starting simulation: N=%d A=%g B=%g dt_shot=%d shots=%d replicas=%d vl=%g vr=%g seed=%d workers=%d",
		cfg.RingSize, cfg.Asymmetry, cfg.Rate, cfg.DtShot, cfg.Shots, cfg.Replicas,
		cfg.LeftDensity, cfg.RightDensity, seed, cfg.Workers)
	logrus.Debugf("Rates: pa=%g pb=%g pc=%g pd=%g", s.Rates.PA, s.Rates.PB, s.Rates.PC, s.Rates.PD)
	logrus.Debugf("Initial measure: left %+v, right %+v", s.Initializer.Left, s.Initializer.Right)

	startTime := time.Now()
	prof, err := s.Run(ctx)
	if err != nil {
		return err
	}
	logrus.Infof("Simulation complete in %s (%d attempts, %d site draws)",
		time.Since(startTime).Round(time.Millisecond), s.Stats.Attempts, s.Stats.SiteDraws)
	if s.Trace != nil {
		logTraceSummary(trace.Summarize(s.Trace))
	}

	logrus.Infof("Saving profile to %s", out.ProfilePath)
	if err := profile.SaveText(out.ProfilePath, prof); err != nil {
		return err
	}
	if out.SummaryPath != "" {
		logrus.Infof("Saving summary to %s", out.SummaryPath)
		if err := saveSummary(out.SummaryPath, profile.Summarize(prof, cfg.DtShot)); err != nil {
			return err
		}
	}
	return nil
}

// saveSummary writes the per-shot CSV to path.
func saveSummary(path string, rows []profile.ShotSummary) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	return profile.WriteSummaryCSV(file, rows)
}

func logTraceSummary(summary *trace.TraceSummary) {
	logrus.Infof("Trace: %d replicas, %d attempts, blocked fraction %.4f",
		summary.TotalReplicas, summary.TotalAttempts, summary.BlockedFraction)
	kinds := make([]string, 0, len(summary.Proposed))
	for kind := range summary.Proposed {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		logrus.Infof("  %-18s proposed=%d accepted=%d ratio=%.4f",
			kind, summary.Proposed[kind], summary.Accepted[kind], summary.AcceptanceRatio[kind])
	}
}

// init sets up CLI flags and subcommands
func init() {
	simFlags.register(runCmd.Flags())
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (keys: ring_size, asymmetry, rate, dt_shot, shots, replicas, left_density, right_density, seed, workers)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Path of the text profile (one value per line)")
	runCmd.Flags().StringVar(&summaryPath, "summary", "", "Optional path of a per-shot CSV summary")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Trace level (none, replicas)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
