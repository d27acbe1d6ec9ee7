package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/sim"
	"github.com/vovakirdan/diamond-flappy/internal/storage"
)

// autopilotPlayer is the player name attached to recorded simulated runs.
const autopilotPlayer = "autopilot"

var (
	flagSimProfile string
	flagSimRuns    int
	flagSimMax     time.Duration
	flagSimSpeed   float64
	flagSimGap     float64
	flagSimMiss    float64
	flagSimRecord  bool
	flagSimReal    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let the autopilot play headless",
	Long: `Play runs without a display using the built-in autopilot.

Time is simulated, so runs finish as fast as the CPU allows and a fixed
--seed reproduces them exactly. --realtime paces frames at --fps instead.
Runs still alive after --max-duration are stopped and reported as survived.

Examples:
  diamond simulate
  diamond simulate --difficulty hard --runs 10 --miss 0.2
  diamond simulate --difficulty custom --speed 350 --gap 110
  diamond simulate --runs 3 --record
  diamond simulate --realtime --log-level debug`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimProfile, "difficulty", config.ProfileNormal, "Profile: easy, normal, hard, custom")
	simulateCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of runs")
	simulateCmd.Flags().DurationVar(&flagSimMax, "max-duration", time.Minute, "Stop a run that survives this long")
	simulateCmd.Flags().Float64Var(&flagSimSpeed, "speed", 0, "Custom obstacle speed (0 = config default)")
	simulateCmd.Flags().Float64Var(&flagSimGap, "gap", 0, "Custom gap size (0 = config default)")
	simulateCmd.Flags().Float64Var(&flagSimMiss, "miss", 0, "Chance the autopilot skips a flap (0-1)")
	simulateCmd.Flags().BoolVar(&flagSimReal, "realtime", false, "Run at wall-clock speed")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save crashed runs to the scores database as \""+autopilotPlayer+"\"")
}

func runSimulate(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	checkProfile(cfg, flagSimProfile)

	if flagSimMiss < 0 || flagSimMiss > 1 {
		fmt.Fprintln(os.Stderr, "Error: --miss must be between 0 and 1")
		os.Exit(1)
	}

	logger, closeLog, err := newLogger("diamond", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := sim.Options{
		Profile:     flagSimProfile,
		Speed:       flagSimSpeed,
		Gap:         flagSimGap,
		Runs:        flagSimRuns,
		MaxDuration: flagSimMax,
		TickRate:    flagFPS,
		Seed:        seed,
		Miss:        flagSimMiss,
		Realtime:    flagSimReal,
		Logger:      logger,
	}

	if flagSimRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Keeper = store.ForPlayer(autopilotPlayer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sim.Run(ctx, cfg, opts)
	printSimResults(results, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printSimResults(results []sim.Result, seed int64) {
	if len(results) == 0 {
		return
	}

	fmt.Printf("Seed %d, %s\n\n", seed, results[0].ProfileID)
	fmt.Printf("%-5s %6s %9s %6s  %s\n", "Run", "Score", "Time", "Flaps", "Outcome")

	best, total := 0, 0
	for i, r := range results {
		outcome := "crashed"
		if r.Survived {
			outcome = "survived"
		}
		if r.NewHigh {
			outcome += ", new high"
		}
		fmt.Printf("%-5d %6d %9s %6d  %s\n", i+1, r.Score, formatSimDuration(r.Duration), r.Flaps, outcome)
		best = max(best, r.Score)
		total += r.Score
	}

	fmt.Printf("\nbest %d   avg %.1f\n", best, float64(total)/float64(len(results)))
}

func formatSimDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
