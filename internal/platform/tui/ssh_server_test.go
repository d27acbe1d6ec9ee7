package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

func TestResolveHostKey(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	other := filepath.Join(t.TempDir(), "keys", "server")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"default", "", filepath.Join(home, ".diamond", "host_key")},
		{"home relative", "~/ssh/diamond_key", filepath.Join(home, "ssh", "diamond_key")},
		{"explicit", other, other},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveHostKey(tc.path)
			if err != nil {
				t.Fatalf("resolveHostKey() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("resolveHostKey(%q) = %q, expected %q", tc.path, got, tc.want)
			}
			if info, err := os.Stat(filepath.Dir(got)); err != nil || !info.IsDir() {
				t.Errorf("key directory %s was not created", filepath.Dir(got))
			}
		})
	}
}

func newTestServer(t *testing.T, dbPath string) *SSHServer {
	t.Helper()
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	cfg.DBPath = dbPath
	cfg.TickRate = 30

	s, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	return s
}

func TestSSHServerSessionOptions(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "scores.db"))

	opts := s.sessionOptions("alice", 80, 25)
	if opts.Keeper == nil || opts.Records == nil {
		t.Fatal("sessions should persist runs when the store is open")
	}
	if opts.Runtime.ScreenW != 80 || opts.Runtime.ScreenH != 25 || opts.Runtime.TickRate != 30 {
		t.Errorf("Runtime = %+v", opts.Runtime)
	}

	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	if w := m.Game().World(); w != (flappy.World{Width: 800, Height: 600}) {
		t.Errorf("session world = %v, expected 800x600", w)
	}

	if _, err := opts.Keeper.RecordRun(flappy.RunResult{RunID: "r1", ProfileID: config.ProfileHard, Score: 4, Duration: time.Second}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	runs, err := s.store.TopScores(config.ProfileHard, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Player != "alice" {
		t.Errorf("runs = %+v, expected one run by alice", runs)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Serve(ctx); err != nil {
		t.Errorf("Serve() after cancel = %v, expected nil", err)
	}
	if s.Online() != 0 {
		t.Errorf("Online() = %d, expected 0", s.Online())
	}
}

func TestSSHServerWithoutStore(t *testing.T) {
	// A regular file where the database directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(t, filepath.Join(blocker, "scores.db"))
	opts := s.sessionOptions("bob", 100, 31)
	if opts.Keeper != nil || opts.Records != nil {
		t.Error("sessions should run without persistence when the store is unavailable")
	}
	if _, err := NewModel(opts); err != nil {
		t.Errorf("NewModel() without store failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Serve(ctx); err != nil {
		t.Errorf("Serve() = %v, expected nil", err)
	}
}
