package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var runSeq int

func run(profileID string, score int) flappy.RunResult {
	runSeq++
	return flappy.RunResult{
		RunID:     fmt.Sprintf("run-%d", runSeq),
		ProfileID: profileID,
		Score:     score,
		Duration:  time.Duration(score) * time.Second,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.RecordRun(run(config.ProfileEasy, 7)); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if high, _ := store.HighScore(config.ProfileEasy); high != 7 {
		t.Errorf("HighScore() after reopen = %d, expected 7", high)
	}
}

func TestRecordRunNewHigh(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		profile  string
		score    int
		expected bool
	}{
		{config.ProfileNormal, 0, false}, // zero never beats the empty high of 0
		{config.ProfileNormal, 5, true},
		{config.ProfileNormal, 5, false}, // equal is not a new high
		{config.ProfileNormal, 3, false},
		{config.ProfileNormal, 6, true},
		{config.ProfileHard, 1, true}, // profiles are independent
	}

	for i, tc := range tests {
		got, err := store.RecordRun(run(tc.profile, tc.score))
		if err != nil {
			t.Fatalf("step %d: RecordRun() failed: %v", i, err)
		}
		if got != tc.expected {
			t.Errorf("step %d: %s score %d newHigh = %v, expected %v", i, tc.profile, tc.score, got, tc.expected)
		}
	}

	high, err := store.HighScore(config.ProfileNormal)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 6 {
		t.Errorf("HighScore() = %d, expected 6", high)
	}

	if high, _ := store.HighScore(config.ProfileEasy); high != 0 {
		t.Errorf("HighScore() for unplayed profile = %d, expected 0", high)
	}

	highs, err := store.HighScores()
	if err != nil {
		t.Fatalf("HighScores() failed: %v", err)
	}
	if len(highs) != 2 || highs[config.ProfileHard] != 1 {
		t.Errorf("HighScores() = %v", highs)
	}
}

func TestRecordRunDuplicateID(t *testing.T) {
	store := openTestStore(t)
	r := run(config.ProfileEasy, 3)

	if _, err := store.RecordRun(r); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if _, err := store.RecordRun(r); err == nil {
		t.Error("recording the same run id twice should fail")
	}
	if entries, _ := store.TopScores(config.ProfileEasy, 10); len(entries) != 1 {
		t.Errorf("failed insert should roll back, got %d runs", len(entries))
	}
}

func TestCustomUnlock(t *testing.T) {
	store := openTestStore(t)

	check := func(expected bool) {
		t.Helper()
		got, err := store.CustomUnlocked()
		if err != nil {
			t.Fatalf("CustomUnlocked() failed: %v", err)
		}
		if got != expected {
			t.Errorf("CustomUnlocked() = %v, expected %v", got, expected)
		}
	}

	check(false)
	store.RecordRun(run(config.ProfileEasy, CustomUnlockScore-1))
	check(false)
	store.RecordRun(run(config.ProfileCustom, 50))
	check(false) // custom runs do not unlock custom
	store.RecordRun(run(config.ProfileHard, CustomUnlockScore))
	check(true)
	store.RecordRun(run(config.ProfileNormal, 40))
	check(true)
}

func TestTopScoresOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	for _, sc := range []int{100, 500, 300, 200, 400} {
		store.RecordRun(run(config.ProfileEasy, sc))
	}
	store.ForPlayer("alice").RecordRun(run(config.ProfileNormal, 999))

	scores, err := store.TopScores(config.ProfileEasy, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Duration != 500*time.Second {
		t.Errorf("Duration = %v, expected 500s", scores[0].Duration)
	}

	normal, _ := store.TopScores(config.ProfileNormal, 0)
	if len(normal) != 1 || normal[0].Player != "alice" {
		t.Errorf("player-tagged run not stored: %+v", normal)
	}
}

func TestRecentRuns(t *testing.T) {
	store := openTestStore(t)
	for i := 1; i <= 5; i++ {
		store.RecordRun(run(config.ProfileEasy, i))
	}

	recent, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 5 || recent[1].Score != 4 {
		t.Errorf("RecentRuns() = %+v", recent)
	}
}

func TestProfileStats(t *testing.T) {
	store := openTestStore(t)
	for _, sc := range []int{2, 4, 9} {
		store.RecordRun(run(config.ProfileHard, sc))
	}

	stats, err := store.GetProfileStats(config.ProfileHard)
	if err != nil {
		t.Fatalf("GetProfileStats() failed: %v", err)
	}
	if stats.GamesPlayed != 3 || stats.Deaths() != 3 {
		t.Errorf("GamesPlayed = %d, expected 3", stats.GamesPlayed)
	}
	if stats.HighScore != 9 || stats.TotalScore != 15 || stats.AvgScore != 5 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.BestSurvival != 9*time.Second || stats.TotalPlay != 15*time.Second {
		t.Errorf("survival = %v total = %v", stats.BestSurvival, stats.TotalPlay)
	}

	empty, err := store.GetProfileStats(config.ProfileEasy)
	if err != nil {
		t.Fatalf("GetProfileStats() on empty profile failed: %v", err)
	}
	if empty.GamesPlayed != 0 || empty.HighScore != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	all, err := store.GetAllProfileStats()
	if err != nil {
		t.Fatalf("GetAllProfileStats() failed: %v", err)
	}
	if len(all) != 1 || all[config.ProfileHard].GamesPlayed != 3 {
		t.Errorf("GetAllProfileStats() = %v", all)
	}
}

func TestClearAndReset(t *testing.T) {
	store := openTestStore(t)
	store.RecordRun(run(config.ProfileEasy, 25))
	store.RecordRun(run(config.ProfileHard, 3))

	if err := store.ClearScores(config.ProfileEasy); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if high, _ := store.HighScore(config.ProfileEasy); high != 0 {
		t.Errorf("easy high after clear = %d", high)
	}
	if high, _ := store.HighScore(config.ProfileHard); high != 3 {
		t.Errorf("clearing easy should keep hard, got %d", high)
	}
	if ok, _ := store.CustomUnlocked(); !ok {
		t.Error("clearing scores keeps unlocks")
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if ok, _ := store.CustomUnlocked(); ok {
		t.Error("Reset() should remove unlocks")
	}
	if highs, _ := store.HighScores(); len(highs) != 0 {
		t.Errorf("Reset() left scores: %v", highs)
	}
}

func TestGameRecordsThroughStore(t *testing.T) {
	store := openTestStore(t)
	g, err := flappy.New(config.DefaultConfig(), flappy.World{Width: 800, Height: 600}, flappy.Options{ScoreKeeper: store})
	if err != nil {
		t.Fatalf("flappy.New() failed: %v", err)
	}

	g.StartRun(config.ProfileEasy)
	g.Update(3)
	for i := 0; i < 600 && g.State() == flappy.StatePlaying; i++ {
		g.Update(1.0 / 60)
	}
	if g.State() != flappy.StateGameOver {
		t.Fatal("run should end on the floor")
	}

	runs, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ProfileID != config.ProfileEasy || runs[0].RunID == "" {
		t.Errorf("stored runs = %+v", runs)
	}
}
