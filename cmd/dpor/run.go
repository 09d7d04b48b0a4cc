package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dpor-dev/dpor/config"
	"github.com/dpor-dev/dpor/engine"
	"github.com/dpor-dev/dpor/report"
	"github.com/dpor-dev/dpor/scenario"
	"github.com/dpor-dev/dpor/tracestore"
)

var (
	configPath      string
	preemptionBound int
	maxBranches     uint64
	maxExecutions   uint64
	quiet           bool
)

var runCmd = &cobra.Command{
	Use:   "run SCENARIO.star",
	Short: "Explore every schedule a scenario script requires",
	Args:  cobra.ExactArgs(1),
	Run:   runCommand,
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "TOML config file (defaults: unbounded exploration)")
	runCmd.Flags().IntVar(&preemptionBound, "preemption-bound", -1, "Maximum preemptions per execution (-1 = use config/unbounded)")
	runCmd.Flags().Uint64Var(&maxBranches, "max-branches", 0, "Maximum Path length per execution (0 = use config/default)")
	runCmd.Flags().Uint64Var(&maxExecutions, "max-executions", 0, "Stop after this many executions (0 = use config/unbounded)")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress per-execution progress lines")
}

func runCommand(cmd *cobra.Command, args []string) {
	sessionID := uuid.NewString()
	log.Logger = log.With().Str("session_id", sessionID).Logger()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("couldn't load config")
		}
		cfg = loaded
	}
	if preemptionBound >= 0 {
		b := uint32(preemptionBound)
		cfg.PreemptionBound = &b
	}
	if maxBranches > 0 {
		cfg.MaxBranches = maxBranches
	}
	if maxExecutions > 0 {
		cfg.MaxExecutions = &maxExecutions
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't read scenario file")
	}
	prog, err := scenario.Load(src, args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't load scenario")
	}

	var store tracestore.Store
	if cfg.TraceStorePath != "" {
		fs, err := tracestore.OpenFileStore(cfg.TraceStorePath)
		if err != nil {
			log.Fatal().Err(err).Msg("couldn't open trace store")
		}
		defer fs.Close()
		store = fs
	} else {
		store = tracestore.NewMemory()
	}

	var reporter report.Reporter = report.Color{Writer: os.Stderr}
	if quiet {
		reporter = report.Silent{}
	}

	report.Running(os.Stderr)

	stats := report.Statistics{}
	results, err := scenario.Run(prog, cfg.PreemptionBound, cfg.MaxBranches, cfg.MaxExecutions, func(r scenario.RunResult) {
		stats.ExecutionsExplored++
		if len(r.Schedule) > stats.MaxDepth {
			stats.MaxDepth = len(r.Schedule)
		}
		if r.Deadlocked {
			stats.DeadlockedRuns++
		}
		if r.Aborted {
			stats.AbortedRuns++
		}
		reporter.Printf("execution %d: %d steps, preemptions=%d\n", stats.ExecutionsExplored, len(r.Schedule), r.PreemptionCount)

		if _, err := store.Put(tracestore.TraceRecord{
			NumThreads:      prog.NumThreads,
			Schedule:        threadIDsToInts(r.Schedule),
			PreemptionCount: r.PreemptionCount,
			Deadlocked:      r.Deadlocked,
			Aborted:         r.Aborted,
			AbortReason:     errString(r.AbortErr),
		}); err != nil {
			log.Error().Err(err).Msg("couldn't persist trace record")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("exploration failed")
	}

	fmt.Fprint(os.Stderr, report.FormatStatistics(stats))

	if stats.DeadlockedRuns > 0 {
		report.Failure(os.Stderr, fmt.Sprintf("%d execution(s) deadlocked", stats.DeadlockedRuns))
		os.Exit(1)
	}
	report.Success(os.Stderr, fmt.Sprintf("explored %d execution(s), no deadlocks", len(results)))
}

func threadIDsToInts(ids []engine.ThreadID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
