package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/storage"
)

// shutdownGrace bounds how long Serve waits for open sessions on exit.
const shutdownGrace = 10 * time.Second

// SSHServerConfig configures remote play.
type SSHServerConfig struct {
	Address     string        // host:port to listen on
	HostKeyPath string        // Empty selects ~/.diamond/host_key; missing keys are generated
	DBPath      string        // Shared scores database; runs are tagged with the SSH user
	IdleTimeout time.Duration // Disconnect sessions without input for this long
	TickRate    int           // Frames per second for every session
	Game        config.Config
	Logger      *log.Logger // nil discards server logs
}

// DefaultSSHServerConfig listens on :23234 with the built-in game config.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.diamond/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Game:        config.DefaultConfig(),
	}
}

// SSHServer hands every SSH session its own Model. The only state sessions
// share is the score store.
type SSHServer struct {
	cfg    SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int32
}

// NewSSHServer prepares the server. A broken scores database only disables
// persistence; a bad host key location is fatal.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	keyPath, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &SSHServer{cfg: cfg, logger: logger}
	if s.store, err = storage.Open(cfg.DBPath); err != nil {
		logger.Warn("playing without score persistence", "err", err)
		s.store = nil
	}

	s.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newSession),
			s.trackSession,
		),
	)
	if err != nil {
		if s.store != nil {
			s.store.Close()
		}
		return nil, fmt.Errorf("tui: ssh server: %w", err)
	}
	return s, nil
}

// resolveHostKey expands the host key location and makes sure its directory
// exists. wish generates the key itself on first start.
func resolveHostKey(path string) (string, error) {
	if path == "" || strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: host key: %w", err)
		}
		if path == "" {
			path = filepath.Join(home, ".diamond", "host_key")
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("tui: host key directory: %w", err)
	}
	return path, nil
}

// sessionOptions gives one SSH user a fresh game at their terminal size.
func (s *SSHServer) sessionOptions(user string, width, height int) ModelOptions {
	opts := ModelOptions{
		Config: s.cfg.Game,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: s.cfg.TickRate,
			Seed:     time.Now().UnixNano(),
		},
		Logger:  s.logger.With("user", user),
		Profile: config.ProfileNormal,
	}
	if s.store != nil {
		opts.Keeper = s.store.ForPlayer(user)
		opts.Records = s.store
	}
	return opts
}

// newSession is the bubbletea handler. Sessions without a PTY are refused.
func (s *SSHServer) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "diamond needs an interactive terminal: connect with ssh -t")
		return nil, nil
	}

	m, err := NewModel(s.sessionOptions(sess.User(), pty.Window.Width, pty.Window.Height))
	if err != nil {
		s.logger.Error("session setup failed", "user", sess.User(), "err", err)
		return nil, nil
	}
	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

// trackSession counts players and logs how long each one stayed.
func (s *SSHServer) trackSession(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		id := uuid.NewString()[:8]
		start := time.Now()
		s.logger.Info("player joined",
			"session", id,
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"online", s.active.Add(1),
		)
		defer func() {
			s.logger.Info("player left",
				"session", id,
				"user", sess.User(),
				"stayed", time.Since(start).Round(time.Second),
				"online", s.active.Add(-1),
			)
		}()
		next(sess)
	}
}

// Online reports the number of connected sessions.
func (s *SSHServer) Online() int {
	return int(s.active.Load())
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.cfg.Address
}

// Serve accepts sessions until ctx is done or the listener fails, then closes
// open sessions and the score store.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("accepting players", "address", s.cfg.Address)

	failed := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			failed <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("stopping", "online", s.Online())
	case serveErr = <-failed:
		s.logger.Error("listener failed", "err", serveErr)
		serveErr = fmt.Errorf("tui: ssh server: %w", serveErr)
	}
	return errors.Join(serveErr, s.close())
}

func (s *SSHServer) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		err = errors.Join(err, s.store.Close())
	}
	return err
}
