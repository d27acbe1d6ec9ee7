package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/diamond-flappy/internal/config"
)

var flagForce bool

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List difficulty profiles",
	Long: `Show the physics and spawn settings of every difficulty, as loaded
from the active configuration.

Examples:
  diamond profiles
  diamond profiles --config ./my-flappy.yaml
  diamond profiles init`,
	Args: cobra.NoArgs,
	Run:  runProfiles,
}

var profilesInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Write the built-in configuration as YAML so it can be edited.
Without a path the file goes to ~/.diamond/configs/flappy.yaml, which
is picked up automatically.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runProfilesInit,
}

func init() {
	profilesInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	profilesCmd.AddCommand(profilesInitCmd)
}

func runProfiles(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	fmt.Println("Difficulty profiles")
	fmt.Println()
	fmt.Printf("  %-8s  %8s  %8s  %8s  %6s  %8s\n", "Profile", "Gravity", "Flap", "Speed", "Gap", "Spawn")
	fmt.Printf("  %-8s  %8s  %8s  %8s  %6s  %8s\n", "-------", "-------", "----", "-----", "---", "-----")
	for _, id := range cfg.ProfileIDs() {
		p, err := cfg.Profile(id)
		if err != nil {
			continue
		}
		fmt.Printf("  %-8s  %8.0f  %8.0f  %8.0f  %6.0f  %8s\n",
			id, p.Gravity, p.FlapImpulse, p.ObstacleSpeed, p.GapSize, p.SpawnInterval)
	}

	fmt.Println()
	fmt.Printf("Custom speed %.0f-%.0f (step %.0f), gap %.0f-%.0f (step %.0f); other values from normal.\n",
		cfg.Custom.Speed.Min, cfg.Custom.Speed.Max, cfg.Custom.Speed.Step,
		cfg.Custom.Gap.Min, cfg.Custom.Gap.Max, cfg.Custom.Gap.Step)
	fmt.Printf("World %.0fx%.0f, countdown %s.\n", cfg.World.Width, cfg.World.Height, cfg.Timing.Countdown)
}

func runProfilesInit(_ *cobra.Command, args []string) {
	path := filepath.Join(config.UserConfigDir(), config.FileName)
	if len(args) == 1 {
		path = args[0]
	}

	if err := config.WriteDefault(path, flagForce); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}
