// Package storage provides SQLite-based persistence for finished runs,
// per-profile high scores and unlocks.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

// UnlockCustom is the unlock granted once any preset reaches CustomUnlockScore.
const UnlockCustom = "custom"

// CustomUnlockScore is the preset high score that unlocks custom mode.
const CustomUnlockScore = 20

// Store manages the SQLite database connection for run persistence.
// It is safe for concurrent use; database/sql serialises access.
type Store struct {
	db *sql.DB
}

// RunEntry represents a single recorded run.
type RunEntry struct {
	ID        int64
	RunID     string
	ProfileID string
	Player    string
	Score     int
	Duration  time.Duration
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; SSH sessions share this store.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			profile_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_profile_id ON runs(profile_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(profile_id, score DESC);

		CREATE TABLE IF NOT EXISTS unlocks (
			name TEXT PRIMARY KEY,
			unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun implements flappy.ScoreKeeper for anonymous local play.
func (s *Store) RecordRun(result flappy.RunResult) (bool, error) {
	return s.SaveRun(result, "")
}

// ForPlayer returns a ScoreKeeper that tags runs with the player name.
func (s *Store) ForPlayer(player string) flappy.ScoreKeeper {
	return playerKeeper{store: s, player: player}
}

type playerKeeper struct {
	store  *Store
	player string
}

func (k playerKeeper) RecordRun(result flappy.RunResult) (bool, error) {
	return k.store.SaveRun(result, k.player)
}

// Ensure Store implements ScoreKeeper
var _ flappy.ScoreKeeper = (*Store)(nil)

// SaveRun records a finished run and reports whether its score is strictly
// greater than the previous high score for the profile. A new preset high of
// CustomUnlockScore or more unlocks custom mode.
func (s *Store) SaveRun(result flappy.RunResult, player string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prev sql.NullInt64
	if err := tx.QueryRow(
		"SELECT MAX(score) FROM runs WHERE profile_id = ?",
		result.ProfileID,
	).Scan(&prev); err != nil {
		return false, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, profile_id, player, score, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		result.RunID, result.ProfileID, player, result.Score, result.Duration.Milliseconds(),
	); err != nil {
		return false, fmt.Errorf("storage: cannot save run: %w", err)
	}

	newHigh := result.Score > int(prev.Int64)

	if newHigh && result.ProfileID != config.ProfileCustom && result.Score >= CustomUnlockScore {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO unlocks (name) VALUES (?)",
			UnlockCustom,
		); err != nil {
			return false, fmt.Errorf("storage: cannot save unlock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return newHigh, nil
}

// HighScore returns the highest score for the given profile.
// Returns 0 if no runs exist.
func (s *Store) HighScore(profileID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE profile_id = ?",
		profileID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// HighScores returns the high score of every profile that has runs.
func (s *Store) HighScores() (map[string]int, error) {
	rows, err := s.db.Query("SELECT profile_id, MAX(score) FROM runs GROUP BY profile_id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query high scores: %w", err)
	}
	defer rows.Close()

	highs := make(map[string]int)
	for rows.Next() {
		var id string
		var score int
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		highs[id] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return highs, nil
}

// TopScores retrieves the top N runs for the given profile.
// Results are ordered by score descending, earliest first on ties.
func (s *Store) TopScores(profileID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, run_id, profile_id, player, score, duration_ms, created_at
		 FROM runs
		 WHERE profile_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		profileID, limit,
	)
}

// RecentRuns retrieves the most recent runs across all profiles.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, run_id, profile_id, player, score, duration_ms, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.ProfileID, &e.Player, &e.Score, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// IsUnlocked reports whether the named unlock has been granted.
func (s *Store) IsUnlocked(name string) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM unlocks WHERE name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query unlocks: %w", err)
	}
	return n > 0, nil
}

// CustomUnlocked reports whether custom mode is available.
func (s *Store) CustomUnlocked() (bool, error) {
	return s.IsUnlocked(UnlockCustom)
}

// ClearScores deletes all runs for the given profile.
func (s *Store) ClearScores(profileID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE profile_id = ?", profileID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Reset deletes all runs and unlocks.
func (s *Store) Reset() error {
	if _, err := s.db.Exec("DELETE FROM runs; DELETE FROM unlocks;"); err != nil {
		return fmt.Errorf("storage: cannot reset: %w", err)
	}
	return nil
}

// ProfileStats contains aggregated statistics for a profile.
// Every run ends in a crash, so Deaths equals GamesPlayed.
type ProfileStats struct {
	ProfileID    string
	GamesPlayed  int
	HighScore    int
	AvgScore     float64
	TotalScore   int64
	BestSurvival time.Duration
	TotalPlay    time.Duration
	LastPlayed   time.Time
}

// Deaths returns the number of crashes recorded for the profile.
func (p *ProfileStats) Deaths() int {
	return p.GamesPlayed
}

// GetProfileStats retrieves aggregated statistics for a specific profile.
func (s *Store) GetProfileStats(profileID string) (*ProfileStats, error) {
	stats := &ProfileStats{ProfileID: profileID}

	var bestMS, totalMS int64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0),
		        COALESCE(MAX(duration_ms), 0), COALESCE(SUM(duration_ms), 0), MAX(created_at)
		 FROM runs WHERE profile_id = ?`,
		profileID,
	).Scan(&stats.GamesPlayed, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &bestMS, &totalMS, &lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get profile stats: %w", err)
	}

	stats.BestSurvival = time.Duration(bestMS) * time.Millisecond
	stats.TotalPlay = time.Duration(totalMS) * time.Millisecond
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllProfileStats retrieves statistics for every profile that has runs.
func (s *Store) GetAllProfileStats() (map[string]*ProfileStats, error) {
	rows, err := s.db.Query(
		`SELECT profile_id, COUNT(*), MAX(score), AVG(score), SUM(score),
		        MAX(duration_ms), SUM(duration_ms), MAX(created_at)
		 FROM runs
		 GROUP BY profile_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all profile stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ProfileStats)
	for rows.Next() {
		var st ProfileStats
		var bestMS, totalMS int64
		var lastPlayed any
		if err := rows.Scan(&st.ProfileID, &st.GamesPlayed, &st.HighScore, &st.AvgScore, &st.TotalScore, &bestMS, &totalMS, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.BestSurvival = time.Duration(bestMS) * time.Millisecond
		st.TotalPlay = time.Duration(totalMS) * time.Millisecond
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.ProfileID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
