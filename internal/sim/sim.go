// Package sim plays Diamond Flappy headless with the autopilot. Frames come
// from a ManualScheduler, so a seed fully determines every run. Realtime runs
// tick on a TickerScheduler instead and are only as reproducible as the clock.
package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

// Options configures a batch of simulated runs.
type Options struct {
	Profile     string
	Speed, Gap  float64       // Custom slider values when Profile is custom
	Runs        int           // Number of runs (default 1)
	MaxDuration time.Duration // Runs still alive after this long are stopped (default 60s)
	TickRate    int           // Simulated frames per second (default 60)
	Seed        int64
	Miss        float64 // Probability that a wanted flap is skipped
	Realtime    bool    // Pace frames with the wall clock instead of running flat out
	World       flappy.World
	Keeper      flappy.ScoreKeeper
	Logger      *log.Logger
}

// Result is the outcome of one simulated run.
type Result struct {
	flappy.RunResult
	Survived bool // Stopped at MaxDuration instead of crashing
	Flaps    int
}

// resultCatcher grabs the RunResult the game emits when a run ends.
type resultCatcher struct {
	flappy.NopListener
	last  *flappy.RunResult
	flaps int
}

func (c *resultCatcher) RunEnded(r flappy.RunResult) { c.last = &r }
func (c *resultCatcher) Flapped()                    { c.flaps++ }

// Run plays opts.Runs runs one after another and returns their results.
func Run(ctx context.Context, cfg config.Config, opts Options) ([]Result, error) {
	if _, err := cfg.Profile(opts.Profile); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if opts.Runs <= 0 {
		opts.Runs = 1
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = time.Minute
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.World.Width <= 0 || opts.World.Height <= 0 {
		opts.World = flappy.World{Width: cfg.World.Width, Height: cfg.World.Height}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Speed == 0 {
		opts.Speed = cfg.Custom.Speed.Default
	}
	if opts.Gap == 0 {
		opts.Gap = cfg.Custom.Gap.Default
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	pilotRng := rand.New(rand.NewSource(opts.Seed + 1))

	results := make([]Result, 0, opts.Runs)
	for i := range opts.Runs {
		res, err := runOne(ctx, cfg, opts, rng, pilotRng)
		if err != nil {
			return results, err
		}
		opts.Logger.Info("simulated run",
			"run", i+1,
			"profile", res.ProfileID,
			"score", res.Score,
			"duration", res.Duration.Round(time.Millisecond),
			"survived", res.Survived,
		)
		results = append(results, res)
	}
	return results, nil
}

func runOne(ctx context.Context, cfg config.Config, opts Options, rng, pilotRng *rand.Rand) (Result, error) {
	catcher := &resultCatcher{}
	g, err := flappy.New(cfg, opts.World, flappy.Options{
		Rand:        rng,
		ScoreKeeper: opts.Keeper,
		Listeners:   []flappy.Listener{catcher},
		Logger:      opts.Logger,
	})
	if err != nil {
		return Result{}, fmt.Errorf("sim: %w", err)
	}

	if opts.Profile == config.ProfileCustom {
		g.StartCustomRun(opts.Speed, opts.Gap)
	} else {
		g.StartRun(opts.Profile)
	}

	var pilot flappy.Autopilot
	var res Result
	var sched core.Scheduler = core.NewManualScheduler(time.Unix(0, 0), time.Second/time.Duration(opts.TickRate))
	if opts.Realtime {
		ticker := core.NewTickerScheduler(opts.TickRate)
		defer ticker.Stop()
		sched = ticker
	}
	driver := core.NewFrameDriver(cfg.Timing.MaxStep)

	err = core.Run(ctx, sched, driver, func(dt float64) bool {
		snap := g.Snapshot()
		if pilot.ShouldFlap(snap, g.Profile().GapSize) && pilotRng.Float64() >= opts.Miss {
			g.Flap()
		}
		g.Update(dt)

		switch {
		case g.State() == flappy.StateGameOver:
			res.RunResult = *catcher.last
			return false
		case g.State() == flappy.StatePlaying && g.Snapshot().Elapsed >= opts.MaxDuration:
			snap := g.Snapshot()
			res.RunResult = flappy.RunResult{
				ProfileID: g.Profile().ID,
				Score:     snap.Score,
				Duration:  snap.Elapsed,
			}
			res.Survived = true
			return false
		}
		return true
	})
	if err != nil {
		return Result{}, fmt.Errorf("sim: %w", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	res.Flaps = catcher.flaps
	return res, nil
}
