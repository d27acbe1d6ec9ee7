package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("embedded YAML and DefaultConfig() diverge:\nyaml: %+v\ncode: %+v", cfg, DefaultConfig())
	}
}

func TestPresetProfiles(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		id       string
		gravity  float64
		flap     float64
		speed    float64
		gap      float64
		interval time.Duration
	}{
		{ProfileEasy, 1200, -400, 200, 200, 2500 * time.Millisecond},
		{ProfileNormal, 1500, -450, 250, 150, 2000 * time.Millisecond},
		{ProfileHard, 1800, -500, 300, 120, 1500 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			p, err := cfg.Profile(tc.id)
			if err != nil {
				t.Fatalf("Profile(%q) failed: %v", tc.id, err)
			}
			if p.ID != tc.id {
				t.Errorf("ID = %q, expected %q", p.ID, tc.id)
			}
			if p.Gravity != tc.gravity || p.FlapImpulse != tc.flap {
				t.Errorf("physics = (%v, %v), expected (%v, %v)", p.Gravity, p.FlapImpulse, tc.gravity, tc.flap)
			}
			if p.ObstacleSpeed != tc.speed || p.GapSize != tc.gap {
				t.Errorf("obstacles = (%v, %v), expected (%v, %v)", p.ObstacleSpeed, p.GapSize, tc.speed, tc.gap)
			}
			if p.SpawnInterval != tc.interval {
				t.Errorf("SpawnInterval = %v, expected %v", p.SpawnInterval, tc.interval)
			}
			if err := p.Validate(); err != nil {
				t.Errorf("preset should be valid: %v", err)
			}
		})
	}
}

func TestUnknownProfile(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.Profile("insane"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestCustomProfile(t *testing.T) {
	cfg := DefaultConfig()
	normal := cfg.Profiles[ProfileNormal]

	tests := []struct {
		name          string
		speed, gap    float64
		expectedSpeed float64
		expectedGap   float64
	}{
		{"in range", 300, 200, 300, 200},
		{"below minimum", 50, 20, 150, 100},
		{"above maximum", 999, 999, 400, 250},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := cfg.CustomProfile(tc.speed, tc.gap)
			if p.ID != ProfileCustom {
				t.Errorf("ID = %q, expected %q", p.ID, ProfileCustom)
			}
			if p.ObstacleSpeed != tc.expectedSpeed || p.GapSize != tc.expectedGap {
				t.Errorf("got speed %v gap %v, expected %v %v", p.ObstacleSpeed, p.GapSize, tc.expectedSpeed, tc.expectedGap)
			}
			if p.Gravity != normal.Gravity || p.FlapImpulse != normal.FlapImpulse || p.SpawnInterval != normal.SpawnInterval {
				t.Error("custom profile should inherit gravity, flap and interval from normal")
			}
		})
	}

	p, err := cfg.Profile(ProfileCustom)
	if err != nil {
		t.Fatalf("Profile(custom) failed: %v", err)
	}
	if p.ObstacleSpeed != 250 || p.GapSize != 150 {
		t.Errorf("default custom = (%v, %v), expected (250, 150)", p.ObstacleSpeed, p.GapSize)
	}
}

func TestProfileValidate(t *testing.T) {
	valid := Profile{ID: "x", Gravity: 1, FlapImpulse: -1, ObstacleSpeed: 1, GapSize: 1, SpawnInterval: time.Second}

	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"zero gravity", func(p *Profile) { p.Gravity = 0 }},
		{"downward flap", func(p *Profile) { p.FlapImpulse = 10 }},
		{"zero speed", func(p *Profile) { p.ObstacleSpeed = 0 }},
		{"negative gap", func(p *Profile) { p.GapSize = -5 }},
		{"zero interval", func(p *Profile) { p.SpawnInterval = 0 }},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("baseline profile should be valid: %v", err)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestParsePartialOverride(t *testing.T) {
	data := []byte(`
obstacles:
  jitter: 40
profiles:
  hard:
    gravity: 2000
    flap_impulse: -550
    obstacle_speed: 350
    gap_size: 110
    spawn_interval: 1200ms
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.Obstacles.Jitter != 40 {
		t.Errorf("Jitter = %v, expected 40", cfg.Obstacles.Jitter)
	}
	if cfg.Obstacles.Width != 80 {
		t.Errorf("untouched Width = %v, expected default 80", cfg.Obstacles.Width)
	}
	hard := cfg.Profiles[ProfileHard]
	if hard.ID != ProfileHard || hard.SpawnInterval != 1200*time.Millisecond || hard.Gravity != 2000 {
		t.Errorf("hard override not applied: %+v", hard)
	}
	if cfg.Profiles[ProfileEasy].Gravity != 1200 {
		t.Error("easy profile should keep its default")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "world: [unclosed"},
		{"negative world", "world:\n  width: -1\n  height: 600\n"},
		{"partial profile", "profiles:\n  easy:\n    gravity: 900\n"},
		{"zeroed extra profile", "profiles:\n  zen:\n    gravity: 0\n"},
		{"inverted custom range", "custom:\n  gap:\n    min: 200\n    max: 100\n    default: 150\n    step: 10\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flappy.yaml")
	if err := os.WriteFile(path, []byte("proximity:\n  threshold: 120\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Proximity.Threshold != 120 {
		t.Errorf("Threshold = %v, expected 120", cfg.Proximity.Threshold)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom path should be an error")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() failed: %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Error("second write without force should fail")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("forced write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Agent.Size != 30 {
		t.Errorf("Agent.Size = %v, expected 30", cfg.Agent.Size)
	}
}

func TestProfileIDs(t *testing.T) {
	cfg := DefaultConfig()
	expected := []string{ProfileEasy, ProfileNormal, ProfileHard, ProfileCustom}
	if got := cfg.ProfileIDs(); !reflect.DeepEqual(got, expected) {
		t.Errorf("ProfileIDs() = %v, expected %v", got, expected)
	}
}

func TestParseExtraProfile(t *testing.T) {
	data := `profiles:
  zen:
    gravity: 800
    flap_impulse: -300
    obstacle_speed: 120
    gap_size: 220
    spawn_interval: 3s
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	p, err := cfg.Profile("zen")
	if err != nil {
		t.Fatalf("Profile(zen) failed: %v", err)
	}
	if p.ID != "zen" || p.SpawnInterval != 3*time.Second {
		t.Errorf("Profile(zen) = %+v", p)
	}

	_, err = Parse([]byte("profiles:\n  zen:\n    gravity: 800\n    flap_impulse: -300\n    obstacle_speed: 120\n    gap_size: 220\n"))
	if !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("zero spawn_interval: expected ErrInvalidProfile, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), `"zen"`) {
		t.Errorf("error should name the profile, got %v", err)
	}
}
