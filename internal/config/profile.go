package config

import (
	"errors"
	"fmt"
	"time"
)

// Profile identifiers.
const (
	ProfileEasy   = "easy"
	ProfileNormal = "normal"
	ProfileHard   = "hard"
	ProfileCustom = "custom"
)

// PresetIDs lists the named presets in menu order.
var PresetIDs = []string{ProfileEasy, ProfileNormal, ProfileHard}

var (
	// ErrUnknownProfile is returned when a profile id is not configured.
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrInvalidProfile is returned when profile values are out of range.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Profile is an immutable bundle of physics and spawn tuning selected at run start.
type Profile struct {
	ID            string        `yaml:"-"`
	Gravity       float64       `yaml:"gravity"`        // Downward acceleration, units/s²
	FlapImpulse   float64       `yaml:"flap_impulse"`   // Velocity set on flap (negative = up)
	ObstacleSpeed float64       `yaml:"obstacle_speed"` // Leftward obstacle speed, units/s
	GapSize       float64       `yaml:"gap_size"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
}

// Validate rejects values that would make the simulation degenerate.
func (p Profile) Validate() error {
	switch {
	case p.Gravity <= 0:
		return fmt.Errorf("%w %q: gravity must be positive", ErrInvalidProfile, p.ID)
	case p.FlapImpulse >= 0:
		return fmt.Errorf("%w %q: flap_impulse must be negative (upward)", ErrInvalidProfile, p.ID)
	case p.ObstacleSpeed <= 0:
		return fmt.Errorf("%w %q: obstacle_speed must be positive", ErrInvalidProfile, p.ID)
	case p.GapSize <= 0:
		return fmt.Errorf("%w %q: gap_size must be positive", ErrInvalidProfile, p.ID)
	case p.SpawnInterval <= 0:
		return fmt.Errorf("%w %q: spawn_interval must be positive", ErrInvalidProfile, p.ID)
	}
	return nil
}

// SpawnSeconds returns the spawn interval in seconds.
func (p Profile) SpawnSeconds() float64 {
	return p.SpawnInterval.Seconds()
}

// Range bounds a user-adjustable value.
type Range struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Default float64 `yaml:"default"`
	Step    float64 `yaml:"step"`
}

// Clamp restricts v to [Min, Max].
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

func (r Range) validate(name string) error {
	if r.Min <= 0 || r.Max < r.Min || r.Default < r.Min || r.Default > r.Max || r.Step <= 0 {
		return fmt.Errorf("%w: %s range [%v, %v] default %v step %v", ErrInvalidConfig, name, r.Min, r.Max, r.Default, r.Step)
	}
	return nil
}

// CustomConfig bounds the two user-adjustable custom-mode values.
type CustomConfig struct {
	Speed Range `yaml:"speed"`
	Gap   Range `yaml:"gap"`
}

// Profile looks up a profile by id. "custom" yields the custom profile at its
// default slider values.
func (c *Config) Profile(id string) (Profile, error) {
	if id == ProfileCustom {
		return c.CustomProfile(c.Custom.Speed.Default, c.Custom.Gap.Default), nil
	}
	p, ok := c.Profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q", ErrUnknownProfile, id)
	}
	return p, nil
}

// CustomProfile builds the custom profile from slider values. Speed and gap are
// clamped into their configured ranges; gravity, flap impulse and spawn
// interval come from the normal preset.
func (c *Config) CustomProfile(speed, gap float64) Profile {
	base := c.Profiles[ProfileNormal]
	return Profile{
		ID:            ProfileCustom,
		Gravity:       base.Gravity,
		FlapImpulse:   base.FlapImpulse,
		ObstacleSpeed: c.Custom.Speed.Clamp(speed),
		GapSize:       c.Custom.Gap.Clamp(gap),
		SpawnInterval: base.SpawnInterval,
	}
}

// ProfileIDs returns the presets in menu order followed by custom.
func (c *Config) ProfileIDs() []string {
	ids := make([]string, 0, len(PresetIDs)+1)
	ids = append(ids, PresetIDs...)
	return append(ids, ProfileCustom)
}
