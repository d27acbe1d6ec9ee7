package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Chirp is a quick upward sweep played on flap.
func Chirp() beep.Streamer {
	return beep.Take(sampleRate.N(90*time.Millisecond), NewSweepGenerator(sampleRate, 520, 940, 90*time.Millisecond))
}

// Ding is a bell-like tone played when an obstacle is cleared.
func Ding() beep.Streamer {
	return beep.Take(sampleRate.N(250*time.Millisecond), NewBellGenerator(sampleRate, 1320))
}

// Blip is the short tone marking the end of the countdown.
func Blip() beep.Streamer {
	return beep.Take(sampleRate.N(60*time.Millisecond), NewBellGenerator(sampleRate, 880))
}

// Crash is a noisy thud played when the diamond dies.
func Crash(seed int64) beep.Streamer {
	return beep.Take(sampleRate.N(400*time.Millisecond), NewCrashGenerator(sampleRate, seed))
}

// SweepGenerator glides a sine from one frequency to another.
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	length   int
	pos      int
	phase    float64
}

// NewSweepGenerator creates a sweep lasting d.
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *SweepGenerator {
	return &SweepGenerator{sr: sr, from: from, to: to, length: max(1, sr.N(d))}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := math.Min(float64(g.pos)/float64(g.length), 1)
		freq := g.from + (g.to-g.from)*progress

		// Integrate phase so the sweep has no clicks
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		envelope := 1 - progress
		sample := 0.25 * envelope * math.Sin(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}

// BellGenerator produces a decaying tone with one overtone.
type BellGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBellGenerator creates a bell at freq Hz.
func NewBellGenerator(sr beep.SampleRate, freq float64) *BellGenerator {
	return &BellGenerator{sr: sr, freq: freq}
}

func (g *BellGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 14)
		sample := 0.2 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.08 * math.Sin(2*math.Pi*g.freq*1.5*t)
		sample *= envelope

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BellGenerator) Err() error {
	return nil
}

// CrashGenerator mixes noise with a falling rumble.
type CrashGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

// NewCrashGenerator creates a crash whose noise is derived from seed.
func NewCrashGenerator(sr beep.SampleRate, seed int64) *CrashGenerator {
	return &CrashGenerator{sr: sr, seed: seed & 0x7fffffff}
}

func (g *CrashGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 7)

		// LCG noise
		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		rumble := 0.35 * math.Sin(2*math.Pi*(90-60*math.Min(t/0.4, 1))*t)
		sample := envelope * (0.25*noise + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *CrashGenerator) Err() error {
	return nil
}
