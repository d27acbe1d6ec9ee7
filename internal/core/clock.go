package core

import (
	"context"
	"time"
)

// DefaultMaxStep caps a single simulated step at 1/30 s.
const DefaultMaxStep = time.Second / 30

// FrameDriver turns frame timestamps into clamped simulation steps.
// A stalled host (backgrounded tab, suspended terminal) produces one capped step
// on resume instead of one huge step.
type FrameDriver struct {
	last    time.Time
	started bool
	maxStep time.Duration
}

// NewFrameDriver creates a driver that never yields a step longer than maxStep.
// A non-positive maxStep selects DefaultMaxStep.
func NewFrameDriver(maxStep time.Duration) *FrameDriver {
	if maxStep <= 0 {
		maxStep = DefaultMaxStep
	}
	return &FrameDriver{maxStep: maxStep}
}

// Step records a frame at now and returns the elapsed time since the previous
// frame in seconds, clamped to [0, maxStep]. The first frame yields 0.
func (d *FrameDriver) Step(now time.Time) float64 {
	if !d.started {
		d.started = true
		d.last = now
		return 0
	}

	elapsed := now.Sub(d.last)
	d.last = now

	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > d.maxStep {
		elapsed = d.maxStep
	}
	return elapsed.Seconds()
}

// Scheduler yields frame timestamps. Next blocks until the next frame is due
// or ctx is done.
type Scheduler interface {
	Next(ctx context.Context) (time.Time, error)
}

// TickerScheduler paces frames with a time.Ticker.
type TickerScheduler struct {
	ticker *time.Ticker
}

// NewTickerScheduler creates a scheduler firing tickRate times per second.
func NewTickerScheduler(tickRate int) *TickerScheduler {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &TickerScheduler{ticker: time.NewTicker(time.Second / time.Duration(tickRate))}
}

// Next waits for the next tick.
func (s *TickerScheduler) Next(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case t := <-s.ticker.C:
		return t, nil
	}
}

// Stop releases the underlying ticker.
func (s *TickerScheduler) Stop() {
	s.ticker.Stop()
}

// ManualScheduler produces evenly spaced synthetic timestamps without sleeping.
// Used by tests and headless simulation.
type ManualScheduler struct {
	now      time.Time
	interval time.Duration
}

// NewManualScheduler starts at start and advances by interval per frame.
func NewManualScheduler(start time.Time, interval time.Duration) *ManualScheduler {
	return &ManualScheduler{now: start, interval: interval}
}

// Next returns the next synthetic timestamp immediately.
func (s *ManualScheduler) Next(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	t := s.now
	s.now = s.now.Add(s.interval)
	return t, nil
}

// Advance moves the synthetic clock forward without emitting a frame,
// simulating a stalled host.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.now = s.now.Add(d)
}

// FrameFunc is called once per frame with the clamped step in seconds.
// Returning false stops the loop.
type FrameFunc func(dt float64) bool

// Run drives frame until ctx is cancelled, the scheduler fails, or frame
// returns false. A cancelled context is not reported as an error.
func Run(ctx context.Context, sched Scheduler, driver *FrameDriver, frame FrameFunc) error {
	for {
		now, err := sched.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if !frame(driver.Step(now)) {
			return nil
		}
	}
}
