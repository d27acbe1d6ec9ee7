// Package config provides YAML-based game configuration loading and the
// difficulty profiles consumed by the simulation.
package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

// ErrInvalidConfig is wrapped by Validate failures.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains all tunable settings of the game.
type Config struct {
	World     WorldConfig        `yaml:"world"`
	Agent     AgentConfig        `yaml:"agent"`
	Obstacles ObstacleConfig     `yaml:"obstacles"`
	Timing    TimingConfig       `yaml:"timing"`
	Proximity ProximityConfig    `yaml:"proximity"`
	Terminal  TerminalConfig     `yaml:"terminal"`
	Profiles  map[string]Profile `yaml:"profiles"`
	Custom    CustomConfig       `yaml:"custom"`
}

// WorldConfig is the logical world used when the host does not dictate one
// (headless simulation).
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// AgentConfig defines the player body.
type AgentConfig struct {
	Size          float64 `yaml:"size"`           // Diameter in world units
	SpawnX        float64 `yaml:"spawn_x"`        // Fixed horizontal spawn position
	RotationSpeed float64 `yaml:"rotation_speed"` // Cosmetic spin, radians per second
}

// ObstacleConfig defines obstacle geometry and placement.
type ObstacleConfig struct {
	Width     float64  `yaml:"width"`
	MinHeight float64  `yaml:"min_height"` // Minimum height of either blocker
	Jitter    float64  `yaml:"jitter"`     // Total spread of the gap centre around mid-height
	Themes    []string `yaml:"themes"`
}

// TimingConfig defines countdown and frame pacing.
type TimingConfig struct {
	Countdown      time.Duration `yaml:"countdown"`       // Total countdown length
	CountdownTicks int           `yaml:"countdown_ticks"` // Discrete values shown (3-2-1)
	MaxStep        time.Duration `yaml:"max_step"`        // Cap on a single simulated step; 0 selects the driver default
	TickRate       int           `yaml:"tick_rate"`
}

// ProximityConfig defines the danger-glow distance used by renderers.
type ProximityConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// TerminalConfig maps terminal cells to world units.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world must have positive dimensions", ErrInvalidConfig)
	}
	if c.Agent.Size <= 0 {
		return fmt.Errorf("%w: agent.size must be positive", ErrInvalidConfig)
	}
	if c.Obstacles.Width <= 0 || c.Obstacles.MinHeight < 0 || c.Obstacles.Jitter < 0 {
		return fmt.Errorf("%w: obstacle geometry out of range", ErrInvalidConfig)
	}
	if c.Timing.MaxStep < 0 || c.Timing.TickRate < 0 {
		return fmt.Errorf("%w: timing values must not be negative", ErrInvalidConfig)
	}
	if c.Timing.Countdown < 0 || c.Timing.CountdownTicks <= 0 {
		return fmt.Errorf("%w: countdown must be non-negative with at least one tick", ErrInvalidConfig)
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("%w: terminal cell size must be positive", ErrInvalidConfig)
	}
	for _, id := range PresetIDs {
		if _, ok := c.Profiles[id]; !ok {
			return fmt.Errorf("%w: missing profile %q", ErrInvalidConfig, id)
		}
	}
	// Extra profiles are reachable through Profile too
	for _, id := range slices.Sorted(maps.Keys(c.Profiles)) {
		p := c.Profiles[id]
		p.ID = id
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if err := c.Custom.Speed.validate("custom.speed"); err != nil {
		return err
	}
	return c.Custom.Gap.validate("custom.gap")
}

// normalize fills derived fields after decoding.
func (c *Config) normalize() {
	for id, p := range c.Profiles {
		p.ID = id
		c.Profiles[id] = p
	}
}
