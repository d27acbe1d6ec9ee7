// Package audio plays short synthesized cues for game events.
// SoundManager is a flappy.Listener; without an audio device it stays silent.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager turns game notifications into sound cues.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	lastScore   int
}

// NewSoundManager creates a sound manager. Call Initialize to open the device.
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds. The speaker itself stays open for the process.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// SetMuted silences or restores cues.
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = muted
}

// Active returns the number of cues still playing.
func (sm *SoundManager) Active() int {
	speaker.Lock()
	defer speaker.Unlock()
	return sm.mixer.Len()
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}

	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// Flapped plays the wing chirp.
func (sm *SoundManager) Flapped() {
	sm.play(Chirp())
}

// ScoreChanged plays a ding whenever the score goes up.
func (sm *SoundManager) ScoreChanged(score int) {
	sm.mu.Lock()
	up := score > sm.lastScore
	sm.lastScore = score
	sm.mu.Unlock()

	if up {
		sm.play(Ding())
	}
}

// StateChanged plays a short blip when a run goes live.
func (sm *SoundManager) StateChanged(_, to flappy.State) {
	if to == flappy.StatePlaying {
		sm.play(Blip())
	}
}

// RunEnded plays the crash.
func (sm *SoundManager) RunEnded(flappy.RunResult) {
	sm.play(Crash(time.Now().UnixNano()))
}

var _ flappy.Listener = (*SoundManager)(nil)
