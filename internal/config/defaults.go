package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/flappy.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration. It mirrors
// defaults/flappy.yaml and is used when the embedded file cannot be parsed.
func DefaultConfig() Config {
	cfg := Config{
		World: WorldConfig{Width: 800, Height: 600},
		Agent: AgentConfig{
			Size:          30,
			SpawnX:        150,
			RotationSpeed: 0.3,
		},
		Obstacles: ObstacleConfig{
			Width:     80,
			MinHeight: 50,
			Jitter:    100,
			Themes:    []string{"pipes", "rocks", "crystals", "lasers", "thorns", "buildings"},
		},
		Timing: TimingConfig{
			Countdown:      3 * time.Second,
			CountdownTicks: 3,
			TickRate:       60,
		},
		Proximity: ProximityConfig{Threshold: 80},
		Terminal:  TerminalConfig{CellWidth: 10, CellHeight: 25},
		Profiles: map[string]Profile{
			ProfileEasy: {
				Gravity:       1200,
				FlapImpulse:   -400,
				ObstacleSpeed: 200,
				GapSize:       200,
				SpawnInterval: 2500 * time.Millisecond,
			},
			ProfileNormal: {
				Gravity:       1500,
				FlapImpulse:   -450,
				ObstacleSpeed: 250,
				GapSize:       150,
				SpawnInterval: 2000 * time.Millisecond,
			},
			ProfileHard: {
				Gravity:       1800,
				FlapImpulse:   -500,
				ObstacleSpeed: 300,
				GapSize:       120,
				SpawnInterval: 1500 * time.Millisecond,
			},
		},
		Custom: CustomConfig{
			Speed: Range{Min: 150, Max: 400, Default: 250, Step: 25},
			Gap:   Range{Min: 100, Max: 250, Default: 150, Step: 10},
		},
	}
	cfg.normalize()
	return cfg
}
