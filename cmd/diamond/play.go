package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/diamond-flappy/internal/audio"
	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
	"github.com/vovakirdan/diamond-flappy/internal/platform/tui"
	"github.com/vovakirdan/diamond-flappy/internal/storage"
)

var (
	flagDifficulty string
	flagMute       bool
	flagPlayer     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start Diamond Flappy in the terminal.

Controls:
  Space/Up/W   - Flap
  Enter        - Start (menu) / Restart (game over)
  Left/Right   - Adjust custom sliders
  R            - Restart after game over
  M/Esc        - Back to menu
  Tab          - High scores (menu)
  Ctrl+S       - Save a text screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy    - Gentle gravity, wide gaps
  normal  - The classic feel
  hard    - Heavy gravity, fast obstacles, narrow gaps
  custom  - Your own speed and gap (the menu unlocks it at 20 points)

With --difficulty the menu is skipped and the run starts immediately.

Examples:
  diamond play
  diamond play --difficulty hard
  diamond play --difficulty custom --mute
  diamond play --config ./my-flappy.yaml`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Start immediately: easy, normal, hard, custom")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	playCmd.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Name recorded with each run")
}

// newSounds opens the audio device unless muted. A missing device is not fatal.
func newSounds(logger *log.Logger, mute bool) (*audio.SoundManager, []flappy.Listener) {
	if mute {
		return nil, nil
	}
	sm := audio.NewSoundManager()
	if err := sm.Initialize(); err != nil {
		logger.Warn("sound disabled", "err", err)
		return nil, nil
	}
	return sm, []flappy.Listener{sm}
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagDifficulty != "" {
		checkProfile(cfg, flagDifficulty)
	}

	logger, closeLog, err := newLogger("diamond", true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.ModelOptions{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Logger:    logger,
		Profile:   config.ProfileNormal,
		AutoStart: flagDifficulty != "",
	}
	if flagDifficulty != "" {
		opts.Profile = flagDifficulty
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
	} else {
		defer store.Close()
		opts.Keeper = store.ForPlayer(flagPlayer)
		opts.Records = store
	}

	sounds, listeners := newSounds(logger, flagMute)
	if sounds != nil {
		defer sounds.Cleanup()
	}
	opts.Listeners = listeners

	if err := tui.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
