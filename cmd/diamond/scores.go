package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/platform/tui"
	"github.com/vovakirdan/diamond-flappy/internal/storage"
)

var (
	flagBrowse   bool
	flagLimit    int
	flagRecent   bool
	flagClearAll bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [profile]",
	Short: "Show high scores and statistics",
	Long: `Without a profile, show a summary for every difficulty.
With a profile, show its top runs.

Examples:
  diamond scores
  diamond scores hard
  diamond scores --recent
  diamond scores --browse
  diamond scores clear normal`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

var scoresClearCmd = &cobra.Command{
	Use:   "clear [profile]",
	Short: "Delete recorded runs",
	Long: `Delete all runs for one profile, or everything including unlocks with --all.

Examples:
  diamond scores clear easy
  diamond scores clear --all`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScoresClear,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive scoreboard")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to list")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "List the latest runs across all profiles")
	scoresClearCmd.Flags().BoolVar(&flagClearAll, "all", false, "Delete all runs and unlocks")
	scoresCmd.AddCommand(scoresClearCmd)
}

func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runScores(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	profile := ""
	if len(args) == 1 {
		profile = args[0]
		checkProfile(cfg, profile)
	}

	store := openStore()
	defer store.Close()

	if flagBrowse {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if profile == "" {
			profile = config.ProfileNormal
		}
		if _, err := tui.RunScoreboard(store, profile, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch {
	case flagRecent:
		printRecentRuns(store)
	case profile == "":
		printSummary(store, cfg)
	default:
		printTopRuns(store, profile)
	}
}

func printRecentRuns(store *storage.Store) {
	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent Runs")
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-6s  %-8s  %s\n", "Date", "Profile", "Score", "Time", "Player")
	fmt.Printf("  %-16s  %-8s  %-6s  %-8s  %s\n", "----", "-------", "-----", "----", "------")
	for _, r := range runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-16s  %-8s  %-6d  %-8s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.ProfileID, r.Score,
			r.Duration.Round(100*time.Millisecond), player)
	}
}

func printSummary(store *storage.Store, cfg config.Config) {
	stats, err := store.GetAllProfileStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving statistics: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Diamond Flappy - Statistics")
	fmt.Println()
	fmt.Printf("  %-8s  %6s  %6s  %7s  %9s  %9s\n", "Profile", "Best", "Runs", "Avg", "Longest", "Played")
	fmt.Printf("  %-8s  %6s  %6s  %7s  %9s  %9s\n", "-------", "----", "----", "---", "-------", "------")
	for _, id := range cfg.ProfileIDs() {
		st, ok := stats[id]
		if !ok {
			fmt.Printf("  %-8s  %6s  %6d  %7s  %9s  %9s\n", id, "-", 0, "-", "-", "-")
			continue
		}
		fmt.Printf("  %-8s  %6d  %6d  %7.1f  %9s  %9s\n",
			id, st.HighScore, st.GamesPlayed, st.AvgScore,
			st.BestSurvival.Round(100*time.Millisecond), st.TotalPlay.Round(time.Second))
	}

	fmt.Println()
	unlocked, err := store.CustomUnlocked()
	if err == nil && unlocked {
		fmt.Println("Custom mode: unlocked")
	} else {
		fmt.Printf("Custom mode: locked (score %d on any difficulty)\n", storage.CustomUnlockScore)
	}
}

func printTopRuns(store *storage.Store, profile string) {
	runs, err := store.TopScores(profile, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", profile)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'diamond play --difficulty %s' to set the first high score!\n", profile)
		return
	}

	fmt.Printf("  %-4s  %-6s  %-8s  %-12s  %s\n", "Rank", "Score", "Time", "Player", "Date")
	fmt.Printf("  %-4s  %-6s  %-8s  %-12s  %s\n", "----", "-----", "----", "------", "----")
	for i, r := range runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-6d  %-8s  %-12s  %s\n",
			i+1, r.Score, r.Duration.Round(100*time.Millisecond), player, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if st, err := store.GetProfileStats(profile); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d   Runs: %d   Deaths: %d\n", st.HighScore, st.GamesPlayed, st.Deaths())
	}
}

func runScoresClear(_ *cobra.Command, args []string) {
	if !flagClearAll && len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: name a profile or pass --all")
		os.Exit(1)
	}

	store := openStore()
	defer store.Close()

	if flagClearAll {
		if err := store.Reset(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All runs and unlocks deleted.")
		return
	}

	checkProfile(loadConfig(), args[0])
	if err := store.ClearScores(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Runs for %s deleted.\n", args[0])
}
