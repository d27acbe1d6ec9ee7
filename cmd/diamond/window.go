package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/platform/desktop"
	"github.com/vovakirdan/diamond-flappy/internal/storage"
)

var (
	flagWidth  int
	flagHeight int
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Play in a desktop window",
	Long: `Open Diamond Flappy in a resizable window. One world unit is one pixel,
so resizing the window changes the playfield.

Controls:
  Space/Up/W/Click - Flap
  Enter            - Start (menu) / Restart (game over)
  Left/Right       - Adjust custom sliders
  M/Esc            - Back to menu
  Q                - Quit

Examples:
  diamond window
  diamond window --width 1024 --height 768
  diamond window --mute`,
	Run: runWindow,
}

func init() {
	windowCmd.Flags().IntVar(&flagWidth, "width", 0, "Window width in pixels (default: config world width)")
	windowCmd.Flags().IntVar(&flagHeight, "height", 0, "Window height in pixels (default: config world height)")
	windowCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	windowCmd.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Name recorded with each run")
}

func runWindow(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	logger, closeLog, err := newLogger("diamond", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	width, height := flagWidth, flagHeight
	if width <= 0 {
		width = int(cfg.World.Width)
	}
	if height <= 0 {
		height = int(cfg.World.Height)
	}

	opts := desktop.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Logger:  logger,
		Profile: config.ProfileNormal,
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

	if err := desktop.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
